package handlers

import (
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"baakh/internal/api/interfaces"
	"baakh/internal/api/models"
	"baakh/internal/api/types"
	"baakh/internal/sindhi"

	"github.com/gin-gonic/gin"
)

// maxBytesPerRune bounds the request body relative to the configured rune
// limit, leaving room for JSON escaping.
const maxBytesPerRune = 12

// Romanize converts Sindhi text to Latin script
func Romanize(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		text, mode, apiErr := bindText(c, services)
		if apiErr != nil {
			respondError(c, apiErr)
			return
		}

		start := time.Now()
		result := services.Romanizer().RomanizeDetailed(text, mode)
		services.GetLogger().PerformanceLogger("romanize", time.Since(start), true)

		respondOK(c, types.RomanizeResponse{
			Original:       text,
			Romanized:      result.Text,
			Mode:           result.Mode.String(),
			Replacements:   result.Replacements,
			DictionaryHits: result.DictionaryHits,
			Words:          result.Words,
		}, "")
	}
}

// Hesudhar normalizes HEH to HEH DOACHASHMEE
func Hesudhar(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		text, mode, apiErr := bindText(c, services)
		if apiErr != nil {
			respondError(c, apiErr)
			return
		}

		out, n := sindhi.NormalizeHesudhar(text, mode)
		respondOK(c, types.HesudharResponse{
			Original:     text,
			Hesudhar:     out,
			Replacements: n,
			Mode:         mode.String(),
		}, "")
	}
}

// Transliterate converts a single word, reporting whether the dictionary
// supplied the result
func Transliterate(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		limitBody(c, services)

		var req types.TransliterateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, models.ErrBadRequest("Invalid request format").WithDetails(err.Error()))
			return
		}
		if req.Word == nil || *req.Word == "" {
			respondError(c, models.ErrBadRequest("Field 'word' is required"))
			return
		}
		if limit := services.GetConfig().API.MaxTextLength; utf8.RuneCountInString(*req.Word) > limit {
			respondError(c, models.ErrBadRequest(fmt.Sprintf("Word exceeds %d characters", limit)))
			return
		}

		roman, found := services.Romanizer().Transliterate(*req.Word)
		respondOK(c, types.TransliterateResponse{
			Word:  *req.Word,
			Roman: roman,
			Found: found,
		}, "")
	}
}

func bindText(c *gin.Context, services interfaces.Services) (string, sindhi.Mode, *models.APIError) {
	limitBody(c, services)

	var req types.TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return "", "", models.ErrBadRequest("Invalid request format").WithDetails(err.Error())
	}
	if req.Text == nil || *req.Text == "" {
		return "", "", models.ErrBadRequest("Field 'text' is required")
	}
	if limit := services.GetConfig().API.MaxTextLength; utf8.RuneCountInString(*req.Text) > limit {
		return "", "", models.ErrBadRequest(fmt.Sprintf("Text exceeds %d characters", limit))
	}

	mode, err := sindhi.ParseMode(req.Mode)
	if err != nil {
		return "", "", models.ErrBadRequest("Mode must be 'smart' or 'global'").WithDetails(err.Error())
	}
	return *req.Text, mode, nil
}

func limitBody(c *gin.Context, services interfaces.Services) {
	limit := int64(services.GetConfig().API.MaxTextLength)*maxBytesPerRune + 1024
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
}
