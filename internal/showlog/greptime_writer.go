package showlog

import (
	"context"
	"log/slog"
	"net"
	"strconv"

	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"
)

// GreptimeDBWriter writes show events to GreptimeDB via the ingester client.
type GreptimeDBWriter struct {
	client *greptime.Client
	table  string
	log    *slog.Logger
}

// NewGreptimeDBWriter creates a GreptimeDB writer. endpoint is host or
// host:port of the gRPC ingest interface.
func NewGreptimeDBWriter(endpoint, database string, log *slog.Logger) (*GreptimeDBWriter, error) {
	host := endpoint
	cfg := greptime.NewConfig(host).WithDatabase(database)
	if h, p, err := net.SplitHostPort(endpoint); err == nil {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		cfg = greptime.NewConfig(h).WithPort(port).WithDatabase(database)
	}
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &GreptimeDBWriter{
		client: client,
		table:  EventTableName,
		log:    log,
	}, nil
}

// WriteEvent inserts a single event row.
func (w *GreptimeDBWriter) WriteEvent(row EventRow) error {
	return w.WriteEvents([]EventRow{row})
}

// WriteEvents inserts multiple event rows. The ingester auto-creates the
// table from the column layout on first write.
func (w *GreptimeDBWriter) WriteEvents(rows []EventRow) error {
	if len(rows) == 0 {
		return nil
	}

	tbl, err := table.New(w.table)
	if err != nil {
		return err
	}
	if err := tbl.AddTagColumn("show_id", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddTagColumn("agent_id", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("agent_index", types.INT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("step", types.INT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("kind", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("command", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("detail", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return err
	}

	for _, r := range rows {
		if err := tbl.AddRow(r.ShowID, r.AgentID, int64(r.AgentIndex), int64(r.Step), r.Kind, r.Command, r.Detail, r.Timestamp); err != nil {
			return err
		}
	}

	if _, err := w.client.Write(context.Background(), tbl); err != nil {
		w.log.Error("greptime write failed", "err", err)
		return err
	}
	w.log.Debug("wrote event rows", "count", len(rows))
	return nil
}
