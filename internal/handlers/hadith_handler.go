package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"hadees/internal/constants"
	"hadees/internal/service"
)

// MaxQueryLength - In characters, not bytes.
const MaxQueryLength = 500

// Searcher - What the routes need from the query service.
type Searcher interface {
	Search(ctx context.Context, query string, filter constants.Filter, limit int) ([]constants.SearchResult, error)
	Answer(ctx context.Context, question string, limit int) (*constants.Answer, error)
	Get(ctx context.Context, id string) (*constants.SearchResult, error)
}

type Handler struct {
	Service Searcher
	logger  *zap.Logger
}

func NewHandler(svc Searcher, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Service: svc, logger: logger}
}

func (handler *Handler) RootHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, ReturnType{Message: "Hadees Search API is running!"})
}

// SearchHandler - GET /search?query&filter_source&filter_chapter&limit
func (handler *Handler) SearchHandler(c echo.Context) error {
	query := c.QueryParam("query")
	if err := validateText("query", query); err != nil {
		return err
	}
	limit, err := parseLimit(c)
	if err != nil {
		return err
	}
	filter := constants.Filter{
		Source:  c.QueryParam("filter_source"),
		Chapter: c.QueryParam("filter_chapter"),
	}

	results, err := handler.Service.Search(c.Request().Context(), query, filter, limit)
	if err != nil {
		handler.logger.Error("search failed", zap.String("query", query), zap.Error(err))
		return handler.serviceError(err, "Search error: ")
	}
	return c.JSON(http.StatusOK, results)
}

// AnswerHandler - GET /answer?question&limit
func (handler *Handler) AnswerHandler(c echo.Context) error {
	question := c.QueryParam("question")
	if err := validateText("question", question); err != nil {
		return err
	}
	limit, err := parseLimit(c)
	if err != nil {
		return err
	}

	answer, err := handler.Service.Answer(c.Request().Context(), question, limit)
	if err != nil {
		handler.logger.Error("answer failed", zap.String("question", question), zap.Error(err))
		return handler.serviceError(err, "Error: ")
	}
	return c.JSON(http.StatusOK, answer)
}

// HadithHandler - GET /hadiths/:id
func (handler *Handler) HadithHandler(c echo.Context) error {
	result, err := handler.Service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return handler.serviceError(err, "Error: ")
	}
	return c.JSON(http.StatusOK, result)
}

// ErrorHandler - Renders every error as {"detail": ...}.
func (handler *Handler) ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	detail := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			detail = msg
		} else {
			detail = http.StatusText(code)
		}
	}
	if writeErr := c.JSON(code, ErrorResponse{Detail: detail}); writeErr != nil {
		handler.logger.Warn("failed to write error response", zap.Error(writeErr))
	}
}

func (handler *Handler) serviceError(err error, prefix string) error {
	switch {
	case errors.Is(err, service.ErrEmptyQuery):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "hadith not found")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, prefix+err.Error())
	}
}

func validateText(name string, value string) error {
	if value == "" {
		return echo.NewHTTPError(http.StatusBadRequest, name+" is required")
	}
	if utf8.RuneCountInString(value) > MaxQueryLength {
		return echo.NewHTTPError(http.StatusBadRequest, "max "+name+" length is "+strconv.Itoa(MaxQueryLength)+" characters")
	}
	return nil
}

// parseLimit - 0 when absent so the service picks its default.
func parseLimit(c echo.Context) (int, error) {
	raw := c.QueryParam("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
	}
	return limit, nil
}
