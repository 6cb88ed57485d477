package bot

import (
	"fmt"
	"strings"

	"navermap_bot/internal/navermap/transport"
)

const (
	replyLabel      = "[네이버 지도]"
	appLinkPrefix   = "네이버 지도 앱에서 열기: "
	notFoundFormat  = "%s '%s' 검색 결과를 찾을 수 없습니다."
	usageMessage    = replyLabel + " 검색어를 입력해 주세요. 예: 지도 강남역"
	upstreamMessage = replyLabel + " 지도 서비스가 응답하지 않습니다. 잠시 후 다시 시도해 주세요."
)

// Format renders a resolved place as the two outbound messages: the static
// map URL, then the text block. Empty fields are left out entirely.
func Format(record transport.PlaceRecord, mapURL string) []string {
	lines := compact(
		replyLabel+record.Title,
		record.Telephone,
		record.Address,
		record.Description,
	)

	var appLine string
	if record.AppDeepLink != "" {
		appLine = appLinkPrefix + record.AppDeepLink
	}
	if linkLines := compact(record.CanonicalLink, appLine); len(linkLines) > 0 {
		lines = append(lines, "")
		lines = append(lines, linkLines...)
	}

	return []string{mapURL, strings.Join(lines, "\n")}
}

// NotFoundMessage is the reply sent when every strategy failed for query.
func NotFoundMessage(query string) string {
	return fmt.Sprintf(notFoundFormat, replyLabel, query)
}

func compact(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
