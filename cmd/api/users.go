package main

import (
	"errors"
	"movieapp/proj/internal/domain/filters"
	"movieapp/proj/internal/lib/validator"
	"movieapp/proj/internal/services/auth"
	"net/http"
)

func (app *Application) listUsers(w http.ResponseWriter, r *http.Request) {
	f := filters.New()
	if err := app.readQuery(r, &f); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, f); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	users, err := app.services.Auth.ListUsers(r.Context(), f.Offset(), f.Limit)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"users": users}, "")
}

func (app *Application) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "user")
	if !ok {
		return
	}
	user, err := app.services.Auth.GetUser(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			app.Http.NotFound(w, r, "User not found")
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Ok(w, r, envelop{"user": user}, "")
}
