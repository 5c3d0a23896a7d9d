package models

import (
	"movieapp/proj/internal/domain/fields"
	"time"
)

type Movie struct {
	ID         int64     `json:"id" db:"id"`                   // Store-assigned identity
	TMDBID     *int64    `json:"tmdb_id" db:"tmdb_id"`         // Identity in the external metadata service, unique when present
	Title      string    `json:"title" db:"title"`             // Movie title
	Year       *int32    `json:"year" db:"year"`               // Release year
	Genre      *string   `json:"genre" db:"genre"`             // Single free-text genre label
	Director   *string   `json:"director" db:"director"`
	Poster     *string   `json:"poster" db:"poster"`           // Poster URL
	TMDBRating *float64  `json:"tmdb_rating" db:"tmdb_rating"` // Rating reported by the external metadata service
	Summary    *string   `json:"summary" db:"summary"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`   // Set on insertion, never updated
}

// UserMovie is a single watch/save event of a user. A user may have several
// rows for the same movie.
type UserMovie struct {
	ID        int64            `json:"id" db:"id"`
	UserID    int64            `json:"user_id" db:"user_id"`
	MovieID   int64            `json:"movie_id" db:"movie_id"`
	Rating    *float64         `json:"rating" db:"rating"`
	IsSaved   fields.SavedFlag `json:"is_saved" db:"is_saved"`
	WatchedAt time.Time        `json:"watched_at" db:"watched_at"`
	Movie     *Movie           `json:"movie,omitempty" db:"-"`
}

type User struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Username     string    `json:"username" db:"username"`
	PasswordHash []byte    `json:"-" db:"password_hash"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type AuthTokens struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
