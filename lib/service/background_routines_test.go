package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconciliationRoutineDisabledByZeroInterval(t *testing.T) {
	svc := &LedgerService{
		Config: &Config{ReconciliationInterval: 0},
		Logger: testLogger,
	}
	assert.NotPanics(t, func() {
		assert.NoError(t, svc.StartReconciliationRoutine(context.Background()))
	})
}

func TestReconciliationRoutineDisabledByNegativeInterval(t *testing.T) {
	svc := &LedgerService{
		Config: &Config{ReconciliationInterval: -1},
		Logger: testLogger,
	}
	assert.NoError(t, svc.StartReconciliationRoutine(context.Background()))
}
