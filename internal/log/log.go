// Package log emits one JSON line per application event. Audit entries
// promote the sale fields this API reports on (sale, table, product,
// total) to first-class columns so the log is queryable without
// unpacking a generic field bag.
package log

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	"comanda/internal/domain"
)

type entry struct {
	TS     string `json:"ts"`
	Level  string `json:"level"`
	ReqID  string `json:"req_id,omitempty"`
	IP     string `json:"ip,omitempty"`
	Method string `json:"method,omitempty"`
	Path   string `json:"path,omitempty"`
	UserID string `json:"user_id,omitempty"`
	Action string `json:"action,omitempty"`
	Status int    `json:"status,omitempty"`

	SaleID    string `json:"sale_id,omitempty"`
	TableID   string `json:"table_id,omitempty"`
	ProductID string `json:"product_id,omitempty"`
	Total     string `json:"total,omitempty"`

	Err    string         `json:"err,omitempty"`
	Fields map[string]any `json:"fields,omitempty"`
}

// Init routes the process log to stdout plus an optional append-only
// file sink. A sink that cannot be opened is logged and skipped; the
// server still runs with stdout only.
func Init(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("[warn] could not open log file %s: %v", path, err)
		return
	}
	log.SetOutput(io.MultiWriter(os.Stdout, f))
}

// promote lifts the well-known sale keys out of the field bag into
// typed columns; everything else stays in Fields.
func (e *entry) promote(fields map[string]any) {
	rest := make(map[string]any, len(fields))
	for k, v := range fields {
		s, isStr := v.(string)
		switch {
		case k == "sale_id" && isStr:
			e.SaleID = s
		case k == "table_id" && isStr:
			e.TableID = s
		case k == "product_id" && isStr:
			e.ProductID = s
		case k == "total" && isStr:
			e.Total = s
		case k == "user_id" && isStr && e.UserID == "":
			e.UserID = s
		default:
			rest[k] = v
		}
	}
	if len(rest) > 0 {
		e.Fields = rest
	}
}

func write(level string, c *fiber.Ctx, action string, err error, fields map[string]any) {
	e := entry{TS: time.Now().UTC().Format(time.RFC3339), Level: level, Action: action}
	if c != nil {
		e.IP = c.IP()
		e.Method = c.Method()
		e.Path = c.Path()
		e.Status = c.Response().StatusCode()
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			e.ReqID = rid
		}
		if u, ok := c.Locals("user").(*domain.User); ok && u != nil {
			e.UserID = u.ID
		}
	}
	e.promote(fields)
	if err != nil {
		e.Err = err.Error()
	}
	b, _ := json.Marshal(e)
	log.Println(string(b))
}

func Info(c *fiber.Ctx, action string, fields map[string]any) { write("info", c, action, nil, fields) }
func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	write("audit", c, action, nil, fields)
}
func Security(c *fiber.Ctx, action string, fields map[string]any) {
	write("warn", c, action, nil, fields)
}
func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	write("error", c, action, err, fields)
}
