package movies

import "errors"

var (
	ErrMovieNotFound      = errors.New("movie not found")
	ErrMovieAlreadyExists = errors.New("movie with that tmdb_id already exists")
	ErrAlreadyInHistory   = errors.New("movie is already in the watch history")
)
