package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"os/exec"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/config"
	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/domain/entities"
)

type stubAuditRuntime struct {
	reconcileWallet func(ctx context.Context, accountID uuid.UUID) (*entities.ReconciliationReport, error)
	reconcileAll    func(ctx context.Context) (*entities.ReconciliationSummary, error)
}

func (s stubAuditRuntime) ReconcileWallet(ctx context.Context, accountID uuid.UUID) (*entities.ReconciliationReport, error) {
	return s.reconcileWallet(ctx, accountID)
}

func (s stubAuditRuntime) ReconcileAll(ctx context.Context) (*entities.ReconciliationSummary, error) {
	return s.reconcileAll(ctx)
}

type closeRecorder struct{ closed bool }

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func testDeps(runtime ledgerAuditRuntime, closer io.Closer, out io.Writer) ledgerAuditDeps {
	return ledgerAuditDeps{
		loadEnv: func() error { return errors.New("no .env") },
		loadCfg: func() *config.Config { return &config.Config{} },
		prepare: func(*config.Config) (ledgerAuditRuntime, io.Closer, error) {
			return runtime, closer, nil
		},
		out: out,
	}
}

func TestParseAccountID(t *testing.T) {
	id, err := parseAccountID("")
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, id)

	_, err = parseAccountID("bad-uuid")
	assert.Error(t, err)

	want := uuid.New()
	got, err := parseAccountID(want.String())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRunLedgerAudit_AllConsistent(t *testing.T) {
	var out bytes.Buffer
	closer := &closeRecorder{}
	runtime := stubAuditRuntime{
		reconcileAll: func(context.Context) (*entities.ReconciliationSummary, error) {
			return &entities.ReconciliationSummary{WalletsChecked: 3, Drifted: []*entities.ReconciliationReport{}}, nil
		},
	}

	err := runLedgerAudit(nil, testDeps(runtime, closer, &out))
	require.NoError(t, err)
	assert.True(t, closer.closed)

	var summary entities.ReconciliationSummary
	require.NoError(t, json.Unmarshal(out.Bytes(), &summary))
	assert.Equal(t, 3, summary.WalletsChecked)
	assert.Empty(t, summary.Drifted)
}

func TestRunLedgerAudit_AllDrifted(t *testing.T) {
	var out bytes.Buffer
	runtime := stubAuditRuntime{
		reconcileAll: func(context.Context) (*entities.ReconciliationSummary, error) {
			return &entities.ReconciliationSummary{
				WalletsChecked: 2,
				Drifted: []*entities.ReconciliationReport{{
					AccountID:     uuid.New(),
					StoredBalance: decimal.NewFromInt(70),
					LedgerBalance: decimal.NewFromInt(60),
					Drift:         decimal.NewFromInt(10),
				}},
			}, nil
		},
	}

	err := runLedgerAudit(nil, testDeps(runtime, nil, &out))
	assert.ErrorIs(t, err, errLedgerDrift)
	assert.Contains(t, out.String(), "drifted")
}

func TestRunLedgerAudit_SingleAccount(t *testing.T) {
	accountID := uuid.New()
	var out bytes.Buffer
	runtime := stubAuditRuntime{
		reconcileWallet: func(_ context.Context, id uuid.UUID) (*entities.ReconciliationReport, error) {
			assert.Equal(t, accountID, id)
			return &entities.ReconciliationReport{AccountID: id, Consistent: true}, nil
		},
	}

	err := runLedgerAudit([]string{"-account-id", accountID.String()}, testDeps(runtime, nil, &out))
	require.NoError(t, err)
	assert.Contains(t, out.String(), accountID.String())
}

func TestRunLedgerAudit_SingleAccountDrifted(t *testing.T) {
	runtime := stubAuditRuntime{
		reconcileWallet: func(_ context.Context, id uuid.UUID) (*entities.ReconciliationReport, error) {
			return &entities.ReconciliationReport{AccountID: id, Consistent: false}, nil
		},
	}

	err := runLedgerAudit([]string{"-account-id", uuid.NewString()}, testDeps(runtime, nil, io.Discard))
	assert.ErrorIs(t, err, errLedgerDrift)
}

func TestRunLedgerAudit_Errors(t *testing.T) {
	t.Run("bad flag", func(t *testing.T) {
		err := runLedgerAudit([]string{"-unknown"}, testDeps(stubAuditRuntime{}, nil, io.Discard))
		assert.Error(t, err)
	})

	t.Run("bad account id", func(t *testing.T) {
		err := runLedgerAudit([]string{"-account-id", "nope"}, testDeps(stubAuditRuntime{}, nil, io.Discard))
		assert.Error(t, err)
	})

	t.Run("prepare fails", func(t *testing.T) {
		deps := testDeps(stubAuditRuntime{}, nil, io.Discard)
		deps.prepare = func(*config.Config) (ledgerAuditRuntime, io.Closer, error) {
			return nil, nil, errors.New("db down")
		}
		assert.EqualError(t, runLedgerAudit(nil, deps), "db down")
	})

	t.Run("reconcile fails", func(t *testing.T) {
		runtime := stubAuditRuntime{
			reconcileAll: func(context.Context) (*entities.ReconciliationSummary, error) {
				return nil, errors.New("query failed")
			},
		}
		err := runLedgerAudit(nil, testDeps(runtime, nil, io.Discard))
		assert.ErrorContains(t, err, "query failed")
	})
}

func TestMain_ExitsOnDBConnectionFailure(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_LEDGER_AUDIT") == "1" {
		os.Args = []string{"ledger-audit"}
		main()
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestMain_ExitsOnDBConnectionFailure")
	cmd.Env = append(os.Environ(),
		"GO_WANT_HELPER_LEDGER_AUDIT=1",
		"DB_HOST=127.0.0.1",
		"DB_PORT=1",
		"DB_SSLMODE=disable",
	)
	if err := cmd.Run(); err == nil {
		t.Fatal("expected helper process to fail when the database is unreachable")
	}
}
