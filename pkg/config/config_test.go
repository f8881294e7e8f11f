package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("IMPORT_MATCH_ORDER", "")
	t.Setenv("IMPORT_PREVIEW_PAGE_SIZE", "")
	t.Setenv("SERVER_READ_TIMEOUT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, MatchOrderList, cfg.Import.MatchOrder)
	require.Equal(t, 50, cfg.Import.PreviewPageSize)
	require.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
}

func TestLoadMatchOrder(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    string
		wantErr bool
	}{
		{name: "priority", value: "priority", want: MatchOrderPriority},
		{name: "upper case", value: "LIST", want: MatchOrderList},
		{name: "unknown", value: "random", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("IMPORT_MATCH_ORDER", tt.value)

			cfg, err := Load()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, cfg.Import.MatchOrder)
		})
	}
}

func TestImportConfigValidatePageSize(t *testing.T) {
	err := ImportConfig{MatchOrder: MatchOrderList, PreviewPageSize: 0}.Validate()
	require.Error(t, err)
}
