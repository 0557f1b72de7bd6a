package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRefreshWriteTimeout(t *testing.T) {
	// 50 sources, 16 at a time: four waves of 20s fetches
	require.Equal(t, 95*time.Second, refreshWriteTimeout(20*time.Second, 50, 16))
	require.Equal(t, 35*time.Second, refreshWriteTimeout(20*time.Second, 10, 16))
	require.Equal(t, 35*time.Second, refreshWriteTimeout(20*time.Second, 50, 0), "unlimited concurrency is one wave")
	require.Equal(t, 25*time.Second, refreshWriteTimeout(10*time.Second, 0, 16))
}
