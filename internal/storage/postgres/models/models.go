package models

import "movieapp/proj/internal/storage/postgres"

type Models struct {
	Movie     *MovieModel
	UserMovie *UserMovieModel
	User      *UserModel
}

func New(db *postgres.Storage) *Models {
	return &Models{
		Movie:     &MovieModel{db.Conn},
		UserMovie: &UserMovieModel{db.Conn},
		User:      &UserModel{db.Conn},
	}
}
