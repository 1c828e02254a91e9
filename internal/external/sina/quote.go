package sina

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/muchen/fenglin/internal/contracts"
)

const (
	companyPagePath = "/realstock/company/%s/nc.shtml"
	klinePath       = "/cn/api/json_v2.php/CN_MarketDataService.getKLineData?symbol=%s&scale=240&ma=no&datalen=%d"
)

// SessionData scrapes the current-session snapshot from the company
// quote page: display name, trading status, ST flag.
func (c *Client) SessionData(ctx context.Context, code string) (*contracts.SessionData, error) {
	symbol, err := toSinaSymbol(code)
	if err != nil {
		return nil, err
	}

	url := c.baseURL + fmt.Sprintf(companyPagePath, symbol)
	resp, err := c.httpClient.GetWithHeaders(ctx, url, map[string]string{
		"User-Agent": "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36",
		"Referer":    "https://finance.sina.com.cn/",
	})
	if err != nil {
		return nil, fmt.Errorf("fetch company page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: company page status %d", contracts.ErrDataUnavailable, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse company page: %w", err)
	}

	data, err := parseSessionDoc(doc, code)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"code":   code,
		"name":   data.Name,
		"paused": data.Paused,
	}).Debug("Fetched session data")

	return data, nil
}

// parseSessionDoc extracts session fields from the quote page DOM
func parseSessionDoc(doc *goquery.Document, code string) (*contracts.SessionData, error) {
	// 股票名: <h1 class="c8_name">贵州茅台</h1>
	name := strings.TrimSpace(doc.Find("h1.c8_name").First().Text())
	if name == "" {
		// Older page layout keeps the name in the title: "贵州茅台(600519)..."
		title := doc.Find("title").Text()
		if idx := strings.Index(title, "("); idx > 0 {
			name = strings.TrimSpace(title[:idx])
		}
	}
	if name == "" {
		return nil, fmt.Errorf("%w: no instrument name for %s", contracts.ErrDataUnavailable, code)
	}

	// 停牌时状态栏显示 "停牌" / "连续停牌"
	status := strings.TrimSpace(doc.Find(".c8_status, #hqPrice_status").Text())

	return &contracts.SessionData{
		Code:             code,
		Name:             name,
		Paused:           strings.Contains(status, "停牌"),
		SpecialTreatment: strings.Contains(name, "ST"),
	}, nil
}

// klineBar mirrors one entry of the Sina daily kline payload (numbers
// arrive as strings)
type klineBar struct {
	Day   string `json:"day"`
	Open  string `json:"open"`
	High  string `json:"high"`
	Low   string `json:"low"`
	Close string `json:"close"`
}

// DailyCloses fetches the most recent daily close prices, oldest
// first. The upstream returns bars in ascending date order already.
func (c *Client) DailyCloses(ctx context.Context, code string, count int) ([]float64, error) {
	symbol, err := toSinaSymbol(code)
	if err != nil {
		return nil, err
	}

	url := c.klineBaseURL + fmt.Sprintf(klinePath, symbol, count)

	var bars []klineBar
	if err := c.httpClient.GetJSON(ctx, url, &bars); err != nil {
		return nil, fmt.Errorf("fetch kline: %w", err)
	}

	closes := make([]float64, 0, len(bars))
	for _, bar := range bars {
		closePrice, err := strconv.ParseFloat(bar.Close, 64)
		if err != nil {
			return nil, fmt.Errorf("parse close %q on %s: %w", bar.Close, bar.Day, err)
		}
		closes = append(closes, closePrice)
	}

	c.logger.WithFields(map[string]interface{}{
		"code":  code,
		"bars":  len(closes),
		"asked": count,
	}).Debug("Fetched daily closes")

	return closes, nil
}
