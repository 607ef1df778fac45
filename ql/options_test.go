package ql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelmolinski/rethinkdb/datum"
	"github.com/samuelmolinski/rethinkdb/errors"
)

func TestResolveConflict(t *testing.T) {
	tests := []struct {
		name    string
		args    OptArgs
		want    ConflictBehavior
		wantErr bool
	}{
		{"absent defaults to error", OptArgs{}, ConflictError, false},
		{"error", OptArgs{"conflict": datum.String("error")}, ConflictError, false},
		{"replace", OptArgs{"conflict": datum.String("replace")}, ConflictReplace, false},
		{"update", OptArgs{"conflict": datum.String("update")}, ConflictUpdate, false},
		{"unknown string", OptArgs{"conflict": datum.String("upsert")}, 0, true},
		{"empty string", OptArgs{"conflict": datum.String("")}, 0, true},
		{"wrong type", OptArgs{"conflict": datum.Number(1)}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveConflict(tt.args)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsLogic(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveConflictNamesValueAndOptions(t *testing.T) {
	_, err := resolveConflict(OptArgs{"conflict": datum.String("upsert")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "`upsert`")
	assert.Contains(t, err.Error(), `"error", "replace" and "update"`)
}

func TestResolveDurability(t *testing.T) {
	tests := []struct {
		name    string
		args    OptArgs
		want    Durability
		wantErr bool
	}{
		{"absent defaults", OptArgs{}, DurabilityDefault, false},
		{"hard", OptArgs{"durability": datum.String("hard")}, DurabilityHard, false},
		{"soft", OptArgs{"durability": datum.String("soft")}, DurabilitySoft, false},
		{"unknown", OptArgs{"durability": datum.String("eventual")}, 0, true},
		{"wrong type", OptArgs{"durability": datum.Bool(true)}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveDurability(tt.args)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsLogic(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveReturnChanges(t *testing.T) {
	tests := []struct {
		name    string
		args    OptArgs
		want    ReturnChanges
		wantErr bool
	}{
		{"absent defaults to no", OptArgs{}, ReturnChangesNo, false},
		{"true", OptArgs{"return_changes": datum.Bool(true)}, ReturnChangesYes, false},
		{"false", OptArgs{"return_changes": datum.Bool(false)}, ReturnChangesNo, false},
		{"always", OptArgs{"return_changes": datum.String("always")}, ReturnChangesAlways, false},
		{"other string", OptArgs{"return_changes": datum.String("sometimes")}, 0, true},
		{"number", OptArgs{"return_changes": datum.Number(1)}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveReturnChanges(tt.args)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsLogic(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestObsoleteReturnValsRejectedRegardlessOfValue(t *testing.T) {
	values := []datum.Datum{
		datum.Bool(true),
		datum.Bool(false),
		datum.Null(),
		datum.String("always"),
	}
	for _, v := range values {
		_, err := resolveReturnChanges(OptArgs{"return_vals": v})
		require.Error(t, err)
		assert.True(t, errors.IsLogic(err))
		assert.Contains(t, err.Error(), "obsolete optarg `return_vals`")
		assert.Contains(t, err.Error(), "`return_changes`")
	}

	// return_vals poisons the call even when return_changes is also set
	_, err := resolveReturnChanges(OptArgs{
		"return_vals":    datum.Bool(false),
		"return_changes": datum.Bool(true),
	})
	assert.Error(t, err)
}

func TestResolveNonAtomic(t *testing.T) {
	got, err := resolveNonAtomic(OptArgs{})
	require.NoError(t, err)
	assert.False(t, got)

	got, err = resolveNonAtomic(OptArgs{"non_atomic": datum.Bool(true)})
	require.NoError(t, err)
	assert.True(t, got)

	_, err = resolveNonAtomic(OptArgs{"non_atomic": datum.String("yes")})
	require.Error(t, err)
	assert.True(t, errors.IsLogic(err))
}
