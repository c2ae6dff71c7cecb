package dashboard

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const emptyLedger = "Belum ada transaksi"

var idPrinter = message.NewPrinter(language.Indonesian)

// FormatIDR renders whole Rupiah the way id-ID locales show IDR with no
// fractional digits, e.g. "Rp 150.000" and "-Rp 400.000".
func FormatIDR(amount int64) string {
	if amount < 0 {
		// -MinInt64 overflows; the ledger never holds such totals.
		return "-Rp " + idPrinter.Sprintf("%d", -amount)
	}
	return "Rp " + idPrinter.Sprintf("%d", amount)
}

// FormatDate renders the entry date as d/m/yyyy, falling back to created_at.
func FormatDate(tx Transaction) string {
	t := tx.Tanggal
	if t.IsZero() {
		t = tx.CreatedAt
	}
	if t.IsZero() {
		return "-"
	}
	return t.Format("2/1/2006")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func badge(tipe string) string {
	return "[" + tipe + "]"
}

// Render writes the stat cards and the transaction table. The id column,
// needed to delete, and the add hint appear only while privileged.
func Render(w io.Writer, v View) error {
	header := "Keuangan Asrama"
	if v.Privileged {
		header += "  [Admin]"
	}
	if _, err := fmt.Fprintf(w, "%s\n\n", header); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Total Pemasukan\tTotal Pengeluaran\tSaldo\n")
	fmt.Fprintf(tw, "%s\t%s\t%s\n", FormatIDR(v.Stats.Pemasukan), FormatIDR(v.Stats.Pengeluaran), FormatIDR(v.Stats.Saldo))
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nRiwayat Transaksi\n")
	if len(v.Items) == 0 {
		_, err := fmt.Fprintf(w, "%s\n", emptyLedger)
		return err
	}

	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	cols := "Tanggal\tPenghuni\tKamar\tKeterangan\tJumlah\tTipe"
	if v.Privileged {
		cols += "\tID"
	}
	fmt.Fprintln(tw, cols)
	for _, tx := range v.Items {
		row := fmt.Sprintf("%s\t%s\t%s\t%s\t%s\t%s",
			FormatDate(tx), orDash(tx.Penghuni), orDash(tx.Kamar), tx.Keterangan, FormatIDR(tx.Jumlah), badge(tx.Tipe))
		if v.Privileged {
			row += "\t" + tx.ID
		}
		fmt.Fprintln(tw, row)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if v.Privileged {
		_, err := fmt.Fprintf(w, "\nTambah: dashboard add  |  Hapus: dashboard delete <id>\n")
		return err
	}
	return nil
}
