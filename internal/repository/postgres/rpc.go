package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/lib/pq"

	"dancehub/internal/domain"
	"dancehub/internal/observability"
)

// Procedures callable through the RPC caller.
var procedures = map[string]bool{
	"moderate_report":            true,
	"moderate_event":             true,
	"create_event":               true,
	"update_event":               true,
	"create_event_report":        true,
	"submit_event_feedback":      true,
	"can_submit_event_feedback":  true,
	"get_event_feedback_summary": true,
	"list_public_events_lite":    true,
	"create_connection_request":  true,
	"accept_connection_request":  true,
	"decline_connection_request": true,
	"cancel_connection_request":  true,
	"block_connection":           true,
	"unblock_connection":         true,
	"create_report":              true,
	"propose_connection_sync":    true,
	"complete_connection_sync":   true,
	"mark_sync_completed":        true,
	"respond_trip_request":       true,
	"cancel_trip_request":        true,
	"send_message":               true,
	"create_notification":        true,
}

var argName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

const setClaims = `SELECT set_config('request.jwt.claims', $1, true)`

type rpcCaller struct {
	userDB    *sql.DB
	serviceDB *sql.DB
	logger    *slog.Logger
}

// RPCCaller is the concrete caller; it serves both the user and the service contexts.
type RPCCaller interface {
	domain.RPCCaller
	domain.ServiceCaller
}

// NewRPCCaller returns a caller running user procedures on userDB and service procedures on serviceDB.
// serviceDB may be nil, in which case service calls fail with an internal error.
func NewRPCCaller(userDB, serviceDB *sql.DB, logger *slog.Logger) RPCCaller {
	return &rpcCaller{userDB: userDB, serviceDB: serviceDB, logger: logger}
}

func (c *rpcCaller) Call(ctx context.Context, userID, proc string, args domain.Args, dest any) error {
	claims, err := userClaims(userID)
	if err != nil {
		return err
	}
	return c.run(ctx, c.userDB, claims, proc, args, false, dest)
}

func (c *rpcCaller) CallSet(ctx context.Context, userID, proc string, args domain.Args, dest any) error {
	claims, err := userClaims(userID)
	if err != nil {
		return err
	}
	return c.run(ctx, c.userDB, claims, proc, args, true, dest)
}

func (c *rpcCaller) CallAsService(ctx context.Context, proc string, args domain.Args, dest any) error {
	if c.serviceDB == nil {
		return &domain.RPCError{Kind: domain.KindInternal, Procedure: proc, Detail: "service credential not configured"}
	}
	return c.run(ctx, c.serviceDB, `{"role":"service_role"}`, proc, args, false, dest)
}

func userClaims(userID string) (string, error) {
	if userID == "" {
		return "", &domain.RPCError{Kind: domain.KindNotAuthenticated, Detail: "not_authenticated"}
	}
	b, err := json.Marshal(map[string]string{"sub": userID, "role": "authenticated"})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (c *rpcCaller) run(ctx context.Context, db *sql.DB, claims, proc string, args domain.Args, set bool, dest any) (err error) {
	start := time.Now()
	defer func() {
		kind := "ok"
		if err != nil {
			kind = string(domain.KindOf(err))
		}
		observability.ObserveProcedure(proc, kind, start)
	}()

	query, values, err := buildCall(proc, args, set)
	if err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return classifyError(proc, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err = tx.ExecContext(ctx, setClaims, claims); err != nil {
		return classifyError(proc, err)
	}
	var raw sql.NullString
	if err = tx.QueryRowContext(ctx, query, values...).Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			err = nil
		} else {
			err = classifyError(proc, err)
			if domain.KindOf(err) == domain.KindInternal {
				c.logger.ErrorContext(ctx, "procedure failed", "procedure", proc, "error", err)
			}
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return classifyError(proc, err)
	}
	if err = decodeResult(raw.String, dest); err != nil {
		return fmt.Errorf("decode %s result: %w", proc, err)
	}
	return nil
}

// buildCall renders a named-argument call. Arguments are sorted by name.
func buildCall(proc string, args domain.Args, set bool) (string, []any, error) {
	if !procedures[proc] {
		return "", nil, &domain.RPCError{Kind: domain.KindInternal, Procedure: proc, Detail: "unknown procedure"}
	}
	names := make([]string, 0, len(args))
	for name := range args {
		if !argName.MatchString(name) {
			return "", nil, &domain.RPCError{Kind: domain.KindInternal, Procedure: proc, Detail: "invalid argument name " + name}
		}
		names = append(names, name)
	}
	sort.Strings(names)

	params := make([]string, len(names))
	values := make([]any, len(names))
	for i, name := range names {
		params[i] = fmt.Sprintf("%s => $%d", name, i+1)
		v, err := argValue(args[name])
		if err != nil {
			return "", nil, fmt.Errorf("%s: argument %s: %w", proc, name, err)
		}
		values[i] = v
	}
	call := fmt.Sprintf("public.%s(%s)", proc, strings.Join(params, ", "))
	if set {
		return fmt.Sprintf("SELECT coalesce(jsonb_agg(to_jsonb(r)), '[]'::jsonb)::text FROM %s AS r", call), values, nil
	}
	return fmt.Sprintf("SELECT %s::text", call), values, nil
}

func argValue(v any) (any, error) {
	switch x := v.(type) {
	case []string:
		return pq.Array(x), nil
	case map[string]any, domain.Args, map[string]string, []map[string]any:
		b, err := json.Marshal(x)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	case *time.Time:
		if x == nil {
			return nil, nil
		}
		return *x, nil
	case *int:
		if x == nil {
			return nil, nil
		}
		return *x, nil
	case *string:
		if x == nil {
			return nil, nil
		}
		return *x, nil
	}
	return v, nil
}

// decodeResult decodes the text form of a procedure result.
// jsonb decodes as JSON; bare uuids and other scalars decode into *string, booleans into *bool.
func decodeResult(raw string, dest any) error {
	if dest == nil || raw == "" {
		return nil
	}
	switch d := dest.(type) {
	case *string:
		if strings.HasPrefix(raw, `"`) {
			return json.Unmarshal([]byte(raw), d)
		}
		*d = raw
		return nil
	case *bool:
		switch raw {
		case "t", "true":
			*d = true
			return nil
		case "f", "false":
			*d = false
			return nil
		}
	}
	return json.Unmarshal([]byte(raw), dest)
}
