package sina

import (
	"fmt"
	"strings"

	"github.com/muchen/fenglin/pkg/httputil"
	"github.com/muchen/fenglin/pkg/logger"
)

// Client fetches quote and session data from Sina Finance
// SSOT: 新浪财经行情访问只在这个包
type Client struct {
	httpClient   *httputil.Client
	baseURL      string
	klineBaseURL string
	logger       *logger.Logger
}

// NewClient creates a new Sina Finance client. baseURL is the quote
// page host, normally https://finance.sina.com.cn; klineBaseURL is
// the daily kline API host, normally https://quotes.sina.cn
func NewClient(httpClient *httputil.Client, baseURL, klineBaseURL string, log *logger.Logger) *Client {
	return &Client{
		httpClient:   httpClient,
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		klineBaseURL: strings.TrimSuffix(klineBaseURL, "/"),
		logger:       log,
	}
}

// toSinaSymbol converts an exchange-qualified code to Sina's format:
// "600519.XSHG" -> "sh600519", "000001.XSHE" -> "sz000001"
func toSinaSymbol(code string) (string, error) {
	parts := strings.SplitN(code, ".", 2)
	if len(parts) != 2 || len(parts[0]) == 0 {
		return "", fmt.Errorf("malformed instrument code %q", code)
	}

	switch parts[1] {
	case "XSHG":
		return "sh" + parts[0], nil
	case "XSHE":
		return "sz" + parts[0], nil
	default:
		return "", fmt.Errorf("unknown exchange suffix in %q", code)
	}
}
