package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shopfront-demo/shopfront/internal/logging"
	"github.com/shopfront-demo/shopfront/internal/mykafka"
)

// ProductRef accepts either id form on the wire: the canonical numeric id
// or the legacy string alias.
type ProductRef string

func (r *ProductRef) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*r = ProductRef(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*r = ProductRef(n.String())
		return nil
	}
	return fmt.Errorf("productId must be a string or a number")
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func parseFloatParam(s string) *float64 {
	if s == "" {
		return nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return &v
	}
	return nil
}

func publishEvent(c echo.Context, producer *mykafka.Producer, topic string, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := producer.PublishEvent(ctx, topic, fmt.Sprint(event["type"]), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("event publish failed", "topic", topic, "error", err)
	}
}
