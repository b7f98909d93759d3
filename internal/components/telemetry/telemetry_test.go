package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScopedAPI(t *testing.T) {
	rec := &Recorder{}
	scoped := NewScopedAPI("housing_client", rec)

	scoped.ReportBroken("client.fetch-housings", "boom")
	scoped.ReportWarning("client.fetch-housings")
	scoped.ReportCount("units", 3)

	broken := rec.Reports(LevelBroken)
	require.Len(t, broken, 1)
	require.Equal(t, "housing_client: client.fetch-housings", broken[0].ID)
	require.Equal(t, []any{"boom"}, broken[0].Params)

	require.Len(t, rec.Reports(LevelWarning), 1)
	counts := rec.Reports(LevelCount)
	require.Len(t, counts, 1)
	require.Equal(t, int64(3), counts[0].Count)

	require.True(t, rec.Broken("fetch-housings"))
	require.False(t, rec.Broken("notify"))
}

func TestSetupWithoutEndpoints(t *testing.T) {
	tel, err := Setup(context.Background(), "test:telemetry", OtlpConfig{})
	require.NoError(t, err)
	require.Nil(t, tel.TracerProvider)
	require.Nil(t, tel.MeterProvider)
	require.NoError(t, tel.Shutdown(context.Background()))
}
