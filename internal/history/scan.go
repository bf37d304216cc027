package history

import (
	"database/sql"
	"errors"
	"strings"
	"time"
)

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run          Run
		transcript   sql.NullString
		scan         sql.NullString
		status       string
		stage        sql.NullString
		startedRaw   string
		finishedRaw  sql.NullString
		errorKind    sql.NullString
		errorMessage sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&transcript,
		&scan,
		&run.RunDir,
		&status,
		&stage,
		&startedRaw,
		&finishedRaw,
		&run.Counts.Chunks,
		&run.Counts.Groups,
		&run.Counts.FailedGroups,
		&run.Counts.RawItems,
		&run.Counts.FinalItems,
		&run.GrandTotal,
		&errorKind,
		&errorMessage,
	); err != nil {
		return nil, err
	}
	run.Transcript = transcript.String
	run.Scan = scan.String
	run.Status = Status(status)
	run.Stage = stage.String
	run.ErrorKind = errorKind.String
	run.ErrorMessage = errorMessage.String
	if started, err := parseTimeString(startedRaw); err == nil {
		run.StartedAt = started
	}
	if finishedRaw.Valid {
		if finished, err := parseTimeString(finishedRaw.String); err == nil {
			run.FinishedAt = &finished
		}
	}
	return &run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapes LIKE wildcards; queries using it must declare ESCAPE '\'.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
