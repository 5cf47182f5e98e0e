package v1

import (
    "errors"
    "net/http"

    "github.com/tinoosan/bookkeeper/internal/errs"
)

// errorResponse is the standard error payload for the API.
type errorResponse struct {
    Error  string       `json:"error"`
    Code   string       `json:"code,omitempty"`
    Fields []fieldError `json:"fields,omitempty"`
}

type fieldError struct {
    Field string `json:"field"`
    Value string `json:"value,omitempty"`
    Error string `json:"error"`
}

func writeErr(w http.ResponseWriter, status int, msg, code string) {
    toJSON(w, status, errorResponse{Error: msg, Code: code})
}

func badRequest(w http.ResponseWriter, msg string) { writeErr(w, http.StatusBadRequest, msg, "bad_request") }
func unknownKind(w http.ResponseWriter)            { writeErr(w, http.StatusNotFound, "unknown ledger kind", "unknown_ledger_kind") }
func unprocessable(w http.ResponseWriter, msg, code string) {
    writeErr(w, http.StatusUnprocessableEntity, msg, code)
}

// writeServiceErr maps domain errors onto HTTP statuses in one place.
func writeServiceErr(w http.ResponseWriter, err error) {
    var fe errs.FieldErrors
    switch {
    case errors.As(err, &fe):
        out := errorResponse{Error: "one or more fields could not be parsed", Code: "field_parse", Fields: make([]fieldError, 0, len(fe))}
        for _, f := range fe {
            out.Fields = append(out.Fields, fieldError{Field: f.Field, Value: f.Value, Error: f.Msg})
        }
        toJSON(w, http.StatusUnprocessableEntity, out)
    case errors.Is(err, errs.ErrUnknownLedgerKind):
        unknownKind(w)
    case errors.Is(err, errs.ErrUnclassified):
        unprocessable(w, "could not determine transaction type, no entry added", "unclassified")
    case errors.Is(err, errs.ErrFieldParse):
        unprocessable(w, err.Error(), "field_parse")
    case errors.Is(err, errs.ErrInvalid):
        unprocessable(w, err.Error(), "validation_error")
    case errors.Is(err, errs.ErrNotFound):
        writeErr(w, http.StatusNotFound, "not_found", "not_found")
    case errors.Is(err, errs.ErrNoPersistence):
        writeErr(w, http.StatusServiceUnavailable, "no persistence adapter configured", "no_persistence")
    default:
        writeErr(w, http.StatusInternalServerError, "internal error", "internal")
    }
}

// rejectionReason labels routing failures for metrics.
func rejectionReason(err error) string {
    switch {
    case errors.Is(err, errs.ErrUnclassified):
        return "unclassified"
    case errors.Is(err, errs.ErrUnknownLedgerKind):
        return "unknown_kind"
    case errors.Is(err, errs.ErrFieldParse):
        return "field_parse"
    case errors.Is(err, errs.ErrInvalid):
        return "invalid"
    default:
        return "other"
    }
}
