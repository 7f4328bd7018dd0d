package scenario

import (
	"encoding/csv"
	"os"
	"strconv"
)

// WriteYearsCSV writes a result's year rows for spreadsheet work.
func WriteYearsCSV(path string, years []AnnualScenarioEconomics) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"year_index",
		"btc_mined",
		"btc_price_usd",
		"revenue_gbp",
		"electricity_cost_gbp",
		"other_opex_gbp",
		"total_opex_gbp",
		"ebitda_gbp",
		"ebitda_margin",
		"client_revenue_gbp",
		"operator_revenue_gbp",
		"client_tax_gbp",
		"client_net_income_gbp",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, y := range years {
		row := []string{
			strconv.Itoa(y.YearIndex),
			fmtFloat(y.BTCMined),
			fmtFloat(y.BTCPriceUSD),
			fmtFloat(y.RevenueGBP),
			fmtFloat(y.ElectricityCostGBP),
			fmtFloat(y.OtherOpexGBP),
			fmtFloat(y.TotalOpexGBP),
			fmtFloat(y.EBITDAGBP),
			fmtFloat(y.EBITDAMargin),
			fmtFloat(y.ClientRevenueGBP),
			fmtFloat(y.OperatorRevenueGBP),
			fmtFloat(y.ClientTaxGBP),
			fmtFloat(y.ClientNetIncomeGBP),
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
