package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"syscall"

	"github.com/koligo/koligo/types"
	"github.com/koligo/koligo/validator"
	"github.com/nicolasparada/go-errs"
	"github.com/nicolasparada/go-errs/httperrs"
)

const maxUploadBytes = 12 << 20

var (
	errBadRequest           = errors.New("bad request")
	errStreamingUnsupported = errors.New("streaming unsupported")
)

func (h *handler) respond(w http.ResponseWriter, v any, statusCode int) {
	b, err := json.Marshal(v)
	if err != nil {
		h.respondErr(w, fmt.Errorf("could not json marshal http response body: %w", err))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_, err = w.Write(b)
	if err != nil && !errors.Is(err, syscall.EPIPE) && !errors.Is(err, context.Canceled) {
		h.logger.Error("could not write down http response", "err", err)
	}
}

func (h *handler) respondErr(w http.ResponseWriter, err error) {
	var v *validator.Validator
	if errors.As(err, &v) {
		h.respond(w, v, http.StatusUnprocessableEntity)
		return
	}

	statusCode := err2code(err)
	if statusCode == http.StatusInternalServerError {
		if !errors.Is(err, context.Canceled) {
			h.logger.Error("internal server error", "err", err)
		}
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	http.Error(w, err.Error(), statusCode)
}

func err2code(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, errStreamingUnsupported):
		return http.StatusExpectationFailed
	}

	return httperrs.Code(err)
}

func (h *handler) writeSSE(w io.Writer, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("could not json marshal sse data", "err", err)
		_, errWrite := fmt.Fprintf(w, "event: error\ndata: %v\n\n", err)
		if errWrite != nil && !errors.Is(errWrite, syscall.EPIPE) {
			h.logger.Error("could not write sse error", "err", errWrite)
		}
		return
	}

	_, errWrite := fmt.Fprintf(w, "data: %s\n\n", b)
	if errWrite != nil && !errors.Is(errWrite, syscall.EPIPE) {
		h.logger.Error("could not write sse data", "err", errWrite)
	}
}

// decodeJSON decodes an optional request body.
// An empty body leaves v untouched.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()

	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}

	if err != nil {
		return errBadRequest
	}

	return nil
}

// formUpload reads an optional file field of a multipart request.
func formUpload(r *http.Request, field string) (*types.Upload, error) {
	f, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}

	if err != nil {
		return nil, errBadRequest
	}

	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s upload: %w", field, err)
	}

	return &types.Upload{Filename: header.Filename, Data: data}, nil
}

// parseMultipart reports whether the request is a multipart form,
// parsing it when so.
func parseMultipart(r *http.Request) (bool, error) {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mt != "multipart/form-data" {
		return false, nil
	}

	r.Body = http.MaxBytesReader(nil, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return true, errBadRequest
	}

	return true, nil
}

func formOptional(r *http.Request, field string) *string {
	if !r.PostForm.Has(field) {
		return nil
	}

	return new(r.PostFormValue(field))
}

func formFloat(r *http.Request, field string) (*float64, error) {
	s := formOptional(r, field)
	if s == nil || *s == "" {
		return nil, nil
	}

	f, err := strconv.ParseFloat(*s, 64)
	if err != nil {
		return nil, errs.InvalidArgumentError("invalid " + field)
	}

	return &f, nil
}

func parsePageArgs(q url.Values) (types.PageArgs, error) {
	var pageArgs types.PageArgs

	if q.Has("first") {
		first, err := strconv.ParseUint(q.Get("first"), 10, 64)
		if err != nil {
			return pageArgs, errs.InvalidArgumentError("invalid first page arg")
		}

		pageArgs.First = new(uint(first))
	}

	if q.Has("after") {
		pageArgs.After = new(q.Get("after"))
	}

	if q.Has("last") {
		last, err := strconv.ParseUint(q.Get("last"), 10, 64)
		if err != nil {
			return pageArgs, errs.InvalidArgumentError("invalid last page arg")
		}

		pageArgs.Last = new(uint(last))
	}

	if q.Has("before") {
		pageArgs.Before = new(q.Get("before"))
	}

	return pageArgs, nil
}

type countRespBody struct {
	Count uint64 `json:"count"`
}
