package main

import (
	"errors"
	"mime"
	"movieapp/proj/internal/lib/validator"
	"movieapp/proj/internal/services/auth"
	"net/http"
)

func (app *Application) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required,email,max=255"`
		Username string `json:"username" validate:"required,notblank,max=100"`
		Password string `json:"password" validate:"required,min=8,max=72"`
	}
	if err := app.readJSON(w, r, &req); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, req); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	user, err := app.services.Auth.Register(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserAlreadyExists):
			app.Http.Conflict(w, r, err.Error())
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Created(w, r, envelop{"user": user}, "User successfully registered")
}

type loginRequest struct {
	// Username carries the e-mail in the OAuth2 password form.
	Username string `json:"email" schema:"username" validate:"required,email"`
	Password string `json:"password" schema:"password" validate:"required"`
}

// login accepts the OAuth2 password grant form as well as a JSON body.
func (app *Application) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	var err error
	switch mediaType {
	case "application/x-www-form-urlencoded":
		err = app.readForm(w, r, &req)
	default:
		err = app.readJSON(w, r, &req)
	}
	if err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, req); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	tokens, err := app.services.Auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			app.Http.Unauthorized(w, r, "Incorrect email or password")
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Ok(w, r, envelop{"access_token": tokens.AccessToken, "token_type": tokens.TokenType}, "")
}

func (app *Application) me(w http.ResponseWriter, r *http.Request) {
	app.Http.Ok(w, r, envelop{"user": contextGetUser(r)}, "")
}
