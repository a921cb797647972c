// Package sqllog wraps a database/sql driver so every statement run through
// it is logged with the logger carried by the statement's context.
package sqllog

import (
	"context"
	"database/sql/driver"
	"fmt"
	"regexp"
	"strings"
	"time"

	proxy "github.com/shogo82148/go-sql-proxy"
	"github.com/sirupsen/logrus"

	"fknsrs.biz/p/ytbrowse/internal/ctxlogger"
)

var whitespace = regexp.MustCompile(`\s+`)

type statement struct {
	start time.Time
	query string
	args  []driver.NamedValue
}

type hooks struct {
	slowerThan time.Duration
	now        func() time.Time
}

func (h *hooks) begin(stmt *proxy.Stmt, args []driver.NamedValue) *statement {
	s := statement{start: h.now(), args: args}
	if stmt != nil {
		s.query = strings.TrimSpace(whitespace.ReplaceAllString(stmt.QueryString, " "))
	}
	return &s
}

func (h *hooks) finish(ctx context.Context, qctx interface{}, err error, message string) error {
	s, ok := qctx.(*statement)
	if !ok || s == nil {
		return err
	}

	duration := h.now().Sub(s.start)
	if err == nil && duration < h.slowerThan {
		return err
	}

	fields := logrus.Fields{
		"sql.query":    s.query,
		"sql.duration": duration,
	}
	for i, arg := range s.args {
		fields[fmt.Sprintf("sql.args.%d", i+1)] = formatArg(arg.Value)
	}

	l := ctxlogger.GetLogger(ctx).WithFields(fields)
	if err != nil {
		l.WithError(err).Warn(message + " failed")
	} else {
		l.Info(message)
	}

	return err
}

func formatArg(v driver.Value) string {
	switch e := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return fmt.Sprintf("[%d bytes]", len(e))
	case string:
		return fmt.Sprintf("%q", e)
	case time.Time:
		return e.Format(time.RFC3339Nano)
	default:
		return fmt.Sprintf("%v", e)
	}
}

// New returns a driver that logs exec and query statements that take at least
// slowerThan. Statements that fail are always logged.
func New(wrapped driver.Driver, slowerThan time.Duration) driver.Driver {
	h := &hooks{slowerThan: slowerThan, now: time.Now}

	return proxy.NewProxyContext(wrapped, &proxy.HooksContext{
		PreExec: func(ctx context.Context, stmt *proxy.Stmt, args []driver.NamedValue) (interface{}, error) {
			return h.begin(stmt, args), nil
		},
		PostExec: func(ctx context.Context, qctx interface{}, stmt *proxy.Stmt, args []driver.NamedValue, _ driver.Result, err error) error {
			return h.finish(ctx, qctx, err, "sql exec")
		},
		PreQuery: func(ctx context.Context, stmt *proxy.Stmt, args []driver.NamedValue) (interface{}, error) {
			return h.begin(stmt, args), nil
		},
		PostQuery: func(ctx context.Context, qctx interface{}, stmt *proxy.Stmt, args []driver.NamedValue, _ driver.Rows, err error) error {
			return h.finish(ctx, qctx, err, "sql query")
		},
	})
}
