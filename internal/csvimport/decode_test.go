package csvimport

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
)

func TestDecode(t *testing.T) {
	const text = "日付,摘要\n2025,ﾍﾟｲﾍﾟｲ 振込\n"

	sjis, err := japanese.ShiftJIS.NewEncoder().String(text)
	require.NoError(t, err)
	euc, err := japanese.EUCJP.NewEncoder().String(text)
	require.NoError(t, err)

	tests := []struct {
		name     string
		data     []byte
		enc      Encoding
		want     string
		wantUsed Encoding
	}{
		{name: "explicit shift_jis", data: []byte(sjis), enc: EncodingShiftJIS, want: text, wantUsed: EncodingShiftJIS},
		{name: "auto detects shift_jis", data: []byte(sjis), enc: EncodingAuto, want: text, wantUsed: EncodingShiftJIS},
		{name: "explicit euc-jp", data: []byte(euc), enc: EncodingEUCJP, want: text, wantUsed: EncodingEUCJP},
		{name: "auto keeps valid utf-8", data: []byte(text), enc: EncodingAuto, want: text, wantUsed: EncodingUTF8},
		{name: "bom stripped", data: append([]byte("\xEF\xBB\xBF"), text...), enc: EncodingUTF8, want: text, wantUsed: EncodingUTF8},
		{name: "invalid utf-8 bytes dropped", data: []byte("a\xffb"), enc: EncodingUTF8, want: "ab", wantUsed: EncodingUTF8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, used, err := Decode(tt.data, tt.enc)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.wantUsed, used)
		})
	}
}

func TestDecodeUnsupported(t *testing.T) {
	_, _, err := Decode([]byte("x"), Encoding("latin-9"))
	require.ErrorIs(t, err, ErrUnreadableFile)
}

func TestParseEncoding(t *testing.T) {
	for in, want := range map[string]Encoding{
		"":          EncodingAuto,
		"SJIS":      EncodingShiftJIS,
		"cp932":     EncodingShiftJIS,
		"UTF8":      EncodingUTF8,
		"euc-jp":    EncodingEUCJP,
		" auto ":    EncodingAuto,
		"shift-jis": EncodingShiftJIS,
	} {
		got, err := ParseEncoding(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := ParseEncoding("latin1")
	require.Error(t, err)
}
