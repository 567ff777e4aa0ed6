package export

import (
	"fmt"
	"io"
	"strings"
)

// utf8BOM は Excel が UTF-8 CSV を正しく開くための byte order mark です。
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVOptions は CSV 書き出しの設定です。
type CSVOptions struct {
	// BOM を true にすると UTF-8 BOM を先頭に出力します。表計算ソフトで
	// 日本語が化けないようにするための互換オプションで、既定の構成では
	// 有効です。
	BOM bool
}

// WriteCSV は出力行を CSV として書き出します。取り込み側の仕様に合わせて
// すべてのフィールドを引用符で囲みます（encoding/csv は必要な場合しか
// 引用しないため使いません）。
func WriteCSV(w io.Writer, rows []Row, opts CSVOptions) error {
	if opts.BOM {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("export: write bom: %w", err)
		}
	}

	if err := writeRecord(w, Headers); err != nil {
		return err
	}
	for _, r := range rows {
		if err := writeRecord(w, r.fields()); err != nil {
			return err
		}
	}

	return nil
}

func writeRecord(w io.Writer, fields []string) error {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	if _, err := io.WriteString(w, strings.Join(quoted, ",")+"\n"); err != nil {
		return fmt.Errorf("export: write record: %w", err)
	}
	return nil
}
