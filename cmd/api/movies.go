package main

import (
	"errors"
	"movieapp/proj/internal/domain/fields"
	"movieapp/proj/internal/domain/filters"
	"movieapp/proj/internal/lib/validator"
	"movieapp/proj/internal/services/movies"
	"movieapp/proj/internal/services/recommend"
	"net/http"
)

func (app *Application) listMovies(w http.ResponseWriter, r *http.Request) {
	f := filters.New()
	if err := app.readQuery(r, &f); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, f); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	list, err := app.services.Movies.List(r.Context(), f)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"movies": list}, "")
}

func (app *Application) getMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "movie")
	if !ok {
		return
	}
	movie, err := app.services.Movies.Get(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, movies.ErrMovieNotFound):
			app.Http.NotFound(w, r, "Movie not found")
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Ok(w, r, envelop{"movie": movie}, "")
}

func (app *Application) createMovie(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TMDBID     *int64   `json:"tmdb_id"`
		Title      string   `json:"title" validate:"required,notblank"`
		Year       *int32   `json:"year"`
		Genre      *string  `json:"genre"`
		Director   *string  `json:"director"`
		Poster     *string  `json:"poster"`
		TMDBRating *float64 `json:"tmdb_rating"`
		Summary    *string  `json:"summary"`
	}
	if err := app.readJSON(w, r, &req); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, req); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	movie, err := app.services.Movies.Create(r.Context(), movies.CreateParams{
		TMDBID:     req.TMDBID,
		Title:      req.Title,
		Year:       req.Year,
		Genre:      req.Genre,
		Director:   req.Director,
		Poster:     req.Poster,
		TMDBRating: req.TMDBRating,
		Summary:    req.Summary,
	})
	if err != nil {
		switch {
		case errors.Is(err, movies.ErrMovieAlreadyExists):
			app.Http.Conflict(w, r, err.Error())
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Created(w, r, envelop{"movie": movie}, "Movie successfully created")
}

// searchExternal forwards the query as is, empty included. A missing
// credential or a failed upstream call is a normal answer carrying
// data.error instead of results.
func (app *Application) searchExternal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `schema:"query"`
	}
	if err := app.readQuery(r, &req); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	res := app.services.Movies.SearchExternal(r.Context(), req.Query)
	if res.Status != movies.SearchOK {
		app.Http.Ok(w, r, envelop{"error": res.Error}, "")
		return
	}
	app.Http.Ok(w, r, envelop{"results": res.Payload}, "")
}

func (app *Application) addToWatchHistory(w http.ResponseWriter, r *http.Request) {
	user := contextGetUser(r)
	var req struct {
		MovieID int64            `json:"movie_id" validate:"required,gt=0"`
		Rating  *float64         `json:"rating"`
		IsSaved fields.SavedFlag `json:"is_saved"`
	}
	if err := app.readJSON(w, r, &req); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, req); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	entry, err := app.services.Movies.AddToWatchHistory(r.Context(), user.ID, movies.WatchParams{
		MovieID: req.MovieID,
		Rating:  req.Rating,
		IsSaved: req.IsSaved,
	})
	if err != nil {
		switch {
		case errors.Is(err, movies.ErrMovieNotFound):
			app.Http.NotFound(w, r, "Movie not found")
		case errors.Is(err, movies.ErrAlreadyInHistory):
			app.Http.Conflict(w, r, err.Error())
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Created(w, r, envelop{"entry": entry}, "")
}

func (app *Application) getWatchHistory(w http.ResponseWriter, r *http.Request) {
	user := contextGetUser(r)
	history, err := app.services.Movies.WatchHistory(r.Context(), user.ID)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"history": history}, "")
}

func (app *Application) getRecommendations(w http.ResponseWriter, r *http.Request) {
	user := contextGetUser(r)
	res, err := app.services.Movies.Recommendations(r.Context(), user.ID)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	data := envelop{"source": res.Source}
	if res.Source == recommend.SourceExternal {
		data["external"] = res.External
	} else {
		data["movies"] = res.Movies
	}
	app.Http.Ok(w, r, data, "")
}
