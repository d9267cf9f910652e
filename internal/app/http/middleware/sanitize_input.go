package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
)

var sanitizePolicy = bluemonday.StrictPolicy()

// SanitizeJSONInput strips markup from every top-level string field of a
// JSON body before it reaches a handler. Names, plan labels and emails
// end up in outbound HTML emails, so they must never carry tags.
// Must not be mounted on the webhook route: it rewrites the body, which
// would break signature verification.
func SanitizeJSONInput() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost || c.Request.Body == nil {
			c.Next()
			return
		}

		buf, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
			return
		}

		var body map[string]interface{}
		if err := json.Unmarshal(buf, &body); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Malformed JSON"})
			return
		}

		for k, v := range body {
			if s, ok := v.(string); ok {
				body[k] = sanitizePolicy.Sanitize(s)
			}
		}

		clean, _ := json.Marshal(body)
		c.Request.Body = io.NopCloser(bytes.NewBuffer(clean))
		c.Request.ContentLength = int64(len(clean))

		c.Next()
	}
}
