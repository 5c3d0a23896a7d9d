package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/schema"
)

func (app *Application) extractIDParam(w http.ResponseWriter, r *http.Request, what string) (id int64, extracted bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		app.Http.BadRequest(w, r, fmt.Sprintf("invalid %s ID", what))
		return 0, false
	}
	if id < 1 {
		app.Http.BadRequest(w, r, "id must be greater than zero")
		return 0, false
	}
	return id, true
}

// readQuery decodes URL query parameters into dst with gorilla/schema.
func (app *Application) readQuery(r *http.Request, dst any) error {
	if err := app.decoder.Decode(dst, r.URL.Query()); err != nil {
		return handleSchemaErr(err)
	}
	return nil
}

// readForm decodes an application/x-www-form-urlencoded body into dst.
func (app *Application) readForm(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1_048_576)
	if err := r.ParseForm(); err != nil {
		return errors.New("body contains badly-formed form data")
	}
	if err := app.decoder.Decode(dst, r.PostForm); err != nil {
		return handleSchemaErr(err)
	}
	return nil
}

func handleSchemaErr(err error) error {
	var multi schema.MultiError
	if errors.As(err, &multi) && len(multi) > 0 {
		fields := make([]string, 0, len(multi))
		for field := range multi {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		return fmt.Errorf("invalid value for %q", fields[0])
	}
	return err
}

func (app *Application) readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	src := http.MaxBytesReader(w, r.Body, int64(maxBytes))
	defer io.Copy(io.Discard, src)
	dec := json.NewDecoder(src)
	dec.DisallowUnknownFields()
	err := dec.Decode(dst)
	if err != nil {
		return handleJsonErr(err)
	}
	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func handleJsonErr(err error) error {
	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	var invalidUnmarshalError *json.InvalidUnmarshalError
	var maxBytesError *http.MaxBytesError
	switch {
	case errors.As(err, &syntaxError):
		return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)

	case errors.Is(err, io.ErrUnexpectedEOF):
		return errors.New("body contains badly-formed JSON")

	case errors.As(err, &unmarshalTypeError):
		if unmarshalTypeError.Field != "" {
			return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
		}
		return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)

	case errors.Is(err, io.EOF):
		return errors.New("body must not be empty")

	case errors.As(err, &maxBytesError):
		return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)

	case errors.As(err, &invalidUnmarshalError):
		panic(err)
	default:
		return err
	}
}
