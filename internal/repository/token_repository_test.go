package repository

import (
	"database/sql"
	"testing"
	"time"
)

func TestRefreshUsable(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	revoked := sql.NullTime{Time: now.Add(-time.Hour), Valid: true}

	cases := []struct {
		name      string
		expiresAt time.Time
		revokedAt sql.NullTime
		want      bool
	}{
		{"live", now.Add(time.Hour), sql.NullTime{}, true},
		{"expires this instant", now, sql.NullTime{}, true},
		{"expired", now.Add(-time.Minute), sql.NullTime{}, false},
		{"revoked", now.Add(time.Hour), revoked, false},
		{"revoked and expired", now.Add(-time.Minute), revoked, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := refreshUsable(tc.expiresAt, tc.revokedAt, now); got != tc.want {
				t.Fatalf("refreshUsable = %v, want %v", got, tc.want)
			}
		})
	}
}
