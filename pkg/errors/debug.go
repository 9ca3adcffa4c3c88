package errors

import (
	stdErrors "errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrorDump is what WriteError attaches to the log line of a failed request.
type ErrorDump struct {
	TopMessage string   `json:"top_message"`
	Code       Code     `json:"code,omitempty"`
	Chain      []string `json:"chain,omitempty"`

	Store StoreFailure `json:"store,omitempty"`
}

// StoreFailure names the constraint or key a database rejected.
type StoreFailure struct {
	Driver     string `json:"driver,omitempty"`
	Code       string `json:"code,omitempty"`
	Constraint string `json:"constraint,omitempty"`
	Table      string `json:"table,omitempty"`
	Detail     string `json:"detail,omitempty"`
}

func (d ErrorDump) Fields() map[string]any {
	fields := map[string]any{"error": d.TopMessage}
	if d.Code != "" {
		fields["error_code"] = d.Code
	}
	if len(d.Chain) > 1 {
		fields["error_chain"] = d.Chain
	}
	if d.Store.Driver != "" {
		fields["db_driver"] = d.Store.Driver
		fields["db_code"] = d.Store.Code
		for key, value := range map[string]string{
			"db_constraint": d.Store.Constraint,
			"db_table":      d.Store.Table,
			"db_detail":     d.Store.Detail,
		} {
			if value != "" {
				fields[key] = value
			}
		}
	}
	return fields
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}
	d := ErrorDump{TopMessage: err.Error()}
	if typed := As(err); typed != nil {
		d.Code = typed.Code()
	}
	for e := err; e != nil; e = stdErrors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}
	d.Store = storeFailure(err)
	return d
}

func storeFailure(err error) StoreFailure {
	var pgxErr *pgconn.PgError
	if stdErrors.As(err, &pgxErr) {
		return StoreFailure{Driver: "pgx", Code: pgxErr.Code, Constraint: pgxErr.ConstraintName, Table: pgxErr.TableName, Detail: pgxErr.Detail}
	}
	var pqErr *pq.Error
	if stdErrors.As(err, &pqErr) {
		return StoreFailure{Driver: "pq", Code: string(pqErr.Code), Constraint: pqErr.Constraint, Table: pqErr.Table, Detail: pqErr.Detail}
	}
	var writeErr mongo.WriteException
	if stdErrors.As(err, &writeErr) && len(writeErr.WriteErrors) > 0 {
		first := writeErr.WriteErrors[0]
		return StoreFailure{Driver: "mongo", Code: fmt.Sprint(first.Code), Detail: first.Message}
	}
	return StoreFailure{}
}
