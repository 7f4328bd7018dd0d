package forecast

import (
	"encoding/csv"
	"os"
	"strconv"
)

// WriteMonthlyCSV writes the production forecast for spreadsheet work.
func WriteMonthlyCSV(path string, rows []MonthlyRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"month",
		"subsidy_btc",
		"fee_btc_per_block",
		"total_reward_btc_per_block",
		"btc_mined",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range rows {
		row := []string{
			r.Month.Format("2006-01"),
			fmtFloat(r.SubsidyBTC),
			fmtFloat(r.FeeBTCPerBlock),
			fmtFloat(r.TotalRewardBTCPerBlock),
			fmtFloat(r.BTCMined),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

// WriteFiatCSV writes the priced forecast, one row per month.
func WriteFiatCSV(path string, rows []FiatRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"month",
		"btc_mined",
		"btc_price_usd",
		"revenue_usd",
		"revenue_gbp",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range rows {
		row := []string{
			r.Month.Format("2006-01"),
			fmtFloat(r.BTCMined),
			fmtFloat(r.BTCPriceUSD),
			fmtFloat(r.RevenueUSD),
			fmtFloat(r.RevenueGBP),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
