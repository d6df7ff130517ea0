package attendance

import (
	"bytes"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	exportHeader     = "emp_id,emp_name,lat,lng,distance_m,status,created_at"
	exportTimeLayout = "2006-01-02 15:04:05"

	EncodingUTF8    = "utf8"
	EncodingUTF8BOM = "utf8bom"
	EncodingSJIS    = "sjis"
)

// renderCSV: ヘッダ＋1イベント1行。値にカンマは来ない前提でクォートしない。
func renderCSV(events []Event) []byte {
	var b bytes.Buffer
	b.WriteString(exportHeader)
	for _, e := range events {
		b.WriteByte('\n')
		b.WriteString(strings.Join([]string{
			e.EmployeeID,
			e.EmployeeName,
			formatFloat(e.Lat),
			formatFloat(e.Lng),
			formatFloat(e.DistanceMeters),
			string(e.Status),
			e.CreatedAt.UTC().Format(exportTimeLayout),
		}, ","))
	}
	return b.Bytes()
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// ParseEncoding はクエリ ?encoding= を正規化する。空なら UTF-8。
func ParseEncoding(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "utf8", "utf-8":
		return EncodingUTF8, nil
	case "utf8bom", "utf-8-bom", "bom":
		return EncodingUTF8BOM, nil
	case "sjis", "shift_jis", "shift-jis", "cp932":
		return EncodingSJIS, nil
	default:
		return "", ErrInvalid("encoding must be utf8, utf8bom or sjis")
	}
}

// encodeCSV は UTF-8 の body を指定エンコーディングに変換する。
// Shift_JIS で表せない文字は置換する（エクスポート後に失敗させない）。
func encodeCSV(body []byte, enc string) ([]byte, string, error) {
	var e encoding.Encoding
	charset := "utf-8"
	switch enc {
	case EncodingUTF8, "":
		return body, "text/csv; charset=utf-8", nil
	case EncodingUTF8BOM:
		e = unicode.UTF8BOM
	case EncodingSJIS:
		e = japanese.ShiftJIS // Excel の「ANSI（CP932）」相当
		charset = "shift_jis"
	default:
		return nil, "", ErrInvalid("unknown encoding")
	}
	out, _, err := transform.Bytes(encoding.ReplaceUnsupported(e.NewEncoder()), body)
	if err != nil {
		return nil, "", err
	}
	return out, "text/csv; charset=" + charset, nil
}
