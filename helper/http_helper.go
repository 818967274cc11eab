package helper

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"board-cms/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"gopkg.in/go-playground/validator.v9"
	en_translations "gopkg.in/go-playground/validator.v9/translations/en"
)

const (
	textError = `error`
	textOk    = `ok`

	codeSuccess           = 200
	codeCreated           = 201
	codeBadRequestError   = 400
	codeForbidden         = 403
	codeNotFound          = 404
	codeConflict          = 409
	codeValidationError   = 422
	codeInternalError     = 500
	codeTypeSuccess       = `success`
	codeTypeBadRequest    = `badRequest`
	codeTypeValidation    = `validationError`
	codeTypeNotFound      = `notFound`
	codeTypeForbidden     = `blocked`
	codeTypeConflict      = `conflict`
	codeTypeInternalError = `internalError`
)

// ResponseHelper ...
type ResponseHelper struct {
	C        *gin.Context
	Status   string
	Message  string
	Data     interface{}
	Code     int
	CodeType string
}

// HTTPHelper ...
type HTTPHelper struct {
	Validate   *validator.Validate
	Translator ut.Translator
}

// NewHTTPHelper builds a validator with English messages registered.
func NewHTTPHelper() (*HTTPHelper, error) {
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")

	validate := validator.New()
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}
	return &HTTPHelper{Validate: validate, Translator: trans}, nil
}

// GetStatusCode ...
// Map a domain error to its HTTP status.
func (u *HTTPHelper) GetStatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, models.ErrNotFound),
		errors.Is(err, models.ErrBoardNotFound),
		errors.Is(err, models.ErrKeywordNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrBlocked):
		return http.StatusForbidden
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, models.ErrTypeMismatch),
		errors.Is(err, models.ErrInvalidCursor),
		errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// SetResponse ...
// Set response data.
func (u *HTTPHelper) SetResponse(c *gin.Context, status string, message string, data interface{}, code int, codeType string) ResponseHelper {
	return ResponseHelper{c, status, message, data, code, codeType}
}

// SendError ...
// Send error response to consumers.
func (u *HTTPHelper) SendError(c *gin.Context, message string, data interface{}, code int, codeType string) error {
	res := u.SetResponse(c, textError, message, data, code, codeType)

	return u.SendResponse(res)
}

// SendErrorFromErr ...
// Send the response matching a service error.
func (u *HTTPHelper) SendErrorFromErr(c *gin.Context, err error) error {
	switch status := u.GetStatusCode(err); status {
	case http.StatusNotFound:
		return u.SendNotFoundError(c, err.Error(), u.EmptyJsonMap())
	case http.StatusForbidden:
		return u.SendError(c, err.Error(), u.EmptyJsonMap(), codeForbidden, codeTypeForbidden)
	case http.StatusConflict:
		return u.SendError(c, err.Error(), u.EmptyJsonMap(), codeConflict, codeTypeConflict)
	case http.StatusBadRequest:
		return u.SendBadRequest(c, err.Error(), u.EmptyJsonMap())
	default:
		_ = c.Error(err)
		return u.SendError(c, "internal server error", u.EmptyJsonMap(), codeInternalError, codeTypeInternalError)
	}
}

// SendBadRequest ...
// Send bad request response to consumers.
func (u *HTTPHelper) SendBadRequest(c *gin.Context, message string, data interface{}) error {
	res := u.SetResponse(c, textError, message, data, codeBadRequestError, codeTypeBadRequest)

	return u.SendResponse(res)
}

// SendValidationError ...
// Send validation error response to consumers.
func (u *HTTPHelper) SendValidationError(c *gin.Context, validationErrors validator.ValidationErrors) error {
	errorResponse := map[string][]string{}
	errorTranslation := validationErrors.Translate(u.Translator)
	for _, err := range validationErrors {
		errKey := Underscore(err.StructField())
		errorResponse[errKey] = append(errorResponse[errKey], errorTranslation[err.Namespace()])
	}

	c.JSON(http.StatusBadRequest, map[string]interface{}{
		"code":         codeValidationError,
		"code_type":    codeTypeValidation,
		"code_message": errorResponse,
		"data":         u.EmptyJsonMap(),
	})
	return nil
}

// SendNotFoundError ...
// Send not found response to consumers.
func (u *HTTPHelper) SendNotFoundError(c *gin.Context, message string, data interface{}) error {
	return u.SendError(c, message, data, codeNotFound, codeTypeNotFound)
}

// SendSuccess ...
// Send success response to consumers.
func (u *HTTPHelper) SendSuccess(c *gin.Context, message string, data interface{}) error {
	res := u.SetResponse(c, textOk, message, data, codeSuccess, codeTypeSuccess)

	return u.SendResponse(res)
}

// SendCreated ...
func (u *HTTPHelper) SendCreated(c *gin.Context, message string, data interface{}) error {
	res := u.SetResponse(c, textOk, message, data, codeCreated, codeTypeSuccess)

	return u.SendResponse(res)
}

// SendResponse ...
// Send response. Code doubles as the HTTP status.
func (u *HTTPHelper) SendResponse(res ResponseHelper) error {
	if len(res.Message) == 0 {
		res.Message = `success`
	}

	resCode := res.Code
	if http.StatusText(resCode) == "" {
		resCode = http.StatusBadRequest
	}

	res.C.JSON(resCode, map[string]interface{}{
		"code":         res.Code,
		"code_type":    res.CodeType,
		"code_message": res.Message,
		"data":         res.Data,
	})
	return nil
}

func (u *HTTPHelper) EmptyJsonMap() map[string]interface{} {
	return make(map[string]interface{})
}

// BindJSON decodes and validates the body into req. On failure the error
// response has already been written and false is returned.
func (u *HTTPHelper) BindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		u.SendBadRequest(c, "invalid request body: "+err.Error(), u.EmptyJsonMap())
		return false
	}
	if err := u.Validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			u.SendValidationError(c, verrs)
			return false
		}
		u.SendBadRequest(c, err.Error(), u.EmptyJsonMap())
		return false
	}
	return true
}

// GetCursorUrl ...
// Link to the page after the given cursor, keeping the other query params.
func (u *HTTPHelper) GetCursorUrl(c *gin.Context, cursorID string, cursorUpdatedAt time.Time) string {
	r := c.Request
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	query := url.Values{}
	for k, v := range r.URL.Query() {
		query[k] = v
	}
	query.Set("cursor_id", cursorID)
	query.Set("cursor_updated_at", cursorUpdatedAt.UTC().Format(time.RFC3339Nano))
	return scheme + "://" + r.Host + r.URL.Path + "?" + query.Encode()
}

// GenerateCursorPaging ...
// Set cursor pagination response.
func (u *HTTPHelper) GenerateCursorPaging(c *gin.Context, page models.ArticlePage) map[string]interface{} {
	nextURL := ""
	if page.HasNext && page.NextCursorID != nil && page.NextCursorUpdatedAt != nil {
		nextURL = u.GetCursorUrl(c, *page.NextCursorID, *page.NextCursorUpdatedAt)
	}

	return map[string]interface{}{
		"per_page":               page.Size,
		"has_next":               page.HasNext,
		"next_cursor_id":         page.NextCursorID,
		"next_cursor_updated_at": page.NextCursorUpdatedAt,
		"links": map[string]interface{}{
			"next": nextURL,
		},
	}
}
