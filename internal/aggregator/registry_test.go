// Copyright (c) 2026 Tosho. All rights reserved.
// Author: khoa.nv.dev@gmail.com

package aggregator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvkhoa/tosho/internal/aggregator"
	"github.com/nvkhoa/tosho/internal/platform/apperr"
)

func TestRegistry_RegisterAndResolve(t *testing.T) {
	registry := aggregator.NewRegistry()
	adapter := &fakeAdapter{}

	registry.Register("shikimori", adapter)

	resolved, err := registry.Resolve("shikimori")
	require.NoError(t, err)
	assert.Same(t, adapter, resolved)
}

func TestRegistry_ResolveUnknown(t *testing.T) {
	registry := aggregator.NewRegistry()

	_, err := registry.Resolve("mangadex")
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "ADAPTER_NOT_REGISTERED", appError.Code)
}

func TestRegistry_RegisterOverwrites(t *testing.T) {
	registry := aggregator.NewRegistry()
	first := &fakeAdapter{}
	second := &fakeAdapter{}

	registry.Register("shikimori", first)
	registry.Register("shikimori", second)

	resolved, err := registry.Resolve("shikimori")
	require.NoError(t, err)
	assert.Same(t, second, resolved)
}
