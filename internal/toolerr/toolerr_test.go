package toolerr_test

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/mwiater/hubble-tool/internal/toolerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvalidListsEveryViolation(t *testing.T) {
	err := toolerr.Invalid(
		toolerr.Violation{Path: "datasets.0.data", Message: "Invalid type. Expected: array, given: string"},
		toolerr.Violation{Path: "type", Message: "type is required"},
	)

	assert.Equal(t, toolerr.InvalidArguments, err.Kind)
	assert.Len(t, err.Violations, 2)
	assert.Equal(t, "Invalid arguments: datasets.0.data: Invalid type. Expected: array, given: string, type: type is required", err.Error())
}

func TestInvalidMessageHasNoPath(t *testing.T) {
	err := toolerr.InvalidMessage("No headers available for table generation")
	assert.Equal(t, "Invalid arguments: No headers available for table generation", err.Error())
	assert.Equal(t, toolerr.InvalidArguments, toolerr.KindOf(err))
}

func TestUnknown(t *testing.T) {
	err := toolerr.Unknown("unknown-tool-xyz")
	assert.Equal(t, toolerr.UnknownTool, err.Kind)
	assert.Equal(t, "Unknown tool: unknown-tool-xyz", err.Error())
}

func TestUpstreamKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := toolerr.Upstream(cause, "Failed to search Hubble")

	assert.Equal(t, toolerr.UpstreamFailure, err.Kind)
	assert.Equal(t, "Failed to search Hubble: connection refused", err.Error())
	assert.True(t, errors.Is(err, cause))
}

func TestNormalize(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, toolerr.Normalize(nil, "Failed"))
	})

	t.Run("tool error passes through wrapped chains", func(t *testing.T) {
		orig := toolerr.Upstream(errors.New("boom"), "Failed to generate chart")
		got := toolerr.Normalize(errors.Wrap(orig, "outer"), "Failed to execute")
		require.NotNil(t, got)
		assert.Same(t, orig, got)
	})

	t.Run("foreign error becomes internal with prefix", func(t *testing.T) {
		got := toolerr.Normalize(errors.New("disk full"), "Failed to download chart")
		assert.Equal(t, toolerr.InternalError, got.Kind)
		assert.Equal(t, "Failed to download chart: disk full", got.Error())
	})

	t.Run("context cancellation becomes internal", func(t *testing.T) {
		got := toolerr.Normalize(context.Canceled, "Failed to search Hubble")
		assert.Equal(t, toolerr.InternalError, got.Kind)
		assert.True(t, errors.Is(got, context.Canceled))
	})
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, toolerr.KindUnknown, toolerr.KindOf(nil))
	assert.Equal(t, toolerr.KindUnknown, toolerr.KindOf(errors.New("plain")))
	assert.Equal(t, "UpstreamFailure", toolerr.UpstreamFailure.String())
}
