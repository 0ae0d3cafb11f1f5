package vivinoweb

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/gocolly/colly/v2"
	"go.openly.dev/pointy"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"cellaret.dev/Cellaret/pkg/model"
)

type WineJSON struct {
	Name         string `json:"name"`
	Manufacturer struct {
		Name string `json:"name"`
	} `json:"manufacturer"`
	Image           string `json:"image"`
	Sku             uint64 `json:"sku"`
	AggregateRating struct {
		RatingValue float64 `json:"ratingValue"`
		ReviewCount int     `json:"reviewCount"`
	} `json:"aggregateRating"`
}

type WineScraped struct {
	IDLink  string `attr:"href"                         selector:"a.wine-card__link"`
	Name    string `selector:".wine-card__name"`
	Winery  string `selector:".wine-card__winery"`
	Type    string `selector:".wine-card__type"`
	Vintage string `selector:".wine-card__vintage"`
	Region  string `selector:".wine-card__region"`
	Country string `selector:".wine-card__country"`
}

type WineContent struct {
	ImageURL string `attr:"src"                     selector:".wine-page__image > img"`
	Rating   string `selector:".average__number"`
	ABV      string `selector:".wine-facts__abv"`
}

type scrapeResults struct {
	matches []model.WineMatch
	err     error
}

// wineTypeNames maps the source site's type labels onto the labels the
// rest of the application uses.
var wineTypeNames = map[string]string{
	"Red":       "紅酒",
	"White":     "白酒",
	"Sparkling": "氣泡酒",
	"Rosé":      "粉紅酒",
	"Dessert":   "甜酒",
	"Fortified": "波特酒",
}

func (v *VivinoWebIntegration) FindWine(name string) ([]model.WineMatch, error) {
	collector := colly.NewCollector(
		colly.AllowedDomains(v.allowedHost()),
		colly.UserAgent("Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:15.0) Gecko/20100101 Firefox/15.0.1"),
	)

	var (
		errs         error
		results      []model.WineMatch
		scrapedPages []WineScraped
	)

	collector.OnHTML(".wine-card", func(element *colly.HTMLElement) {
		scraped := WineScraped{}

		err := element.Unmarshal(&scraped)
		if multierr.AppendInto(&errs, err) {
			v.logger.Error("failed to unmarshal scraped wine", zap.Error(err))

			return
		}

		idString := scraped.IDLink[strings.LastIndex(scraped.IDLink, "/")+1:]

		v.logger.Info("successfully scraped item from results", zap.String("id", idString), zap.String("name", scraped.Name))

		scrapedPages = append(scrapedPages, scraped)
	})

	collector.OnError(func(response *colly.Response, err error) {
		v.logger.Error("error while scraping wine search results", zap.String("url", response.Request.URL.String()), zap.Error(err))
	})

	v.logger.Info("scraping query results", zap.String("query", name))
	multierr.AppendInto(&errs, collector.Visit(v.baseURL+"/search/wines?q="+url.QueryEscape(name)))

	var wineWG sync.WaitGroup

	wineChan := make(chan scrapeResults, len(scrapedPages))

	appendResult := func() {
		scraped := <-wineChan
		results = append(results, scraped.matches...)
		multierr.AppendInto(&errs, scraped.err)
		wineWG.Done()
	}

	for _, scraped := range scrapedPages {
		wineWG.Add(1)

		go v.getWineData(collector.Clone(), scraped, wineChan)
		go appendResult()
	}

	wineWG.Wait()

	v.logger.Info("finished scraping query results", zap.Any("results", results), zap.Error(errs))

	return results, errs
}

func (v *VivinoWebIntegration) getWineData(detailCollector *colly.Collector, scraped WineScraped, wineChan chan scrapeResults) {
	match := model.WineMatch{
		Name:           scraped.Name,
		Winery:         scraped.Winery,
		WineType:       translateWineType(scraped.Type),
		Vintage:        extractVintage(scraped),
		Region:         nonEmpty(scraped.Region),
		Country:        nonEmpty(scraped.Country),
		ExternalSource: pointy.String(IntegrationName),
	}

	detailCollector.OnHTML("head script[type='application/ld+json']", func(element *colly.HTMLElement) {
		var wineJSON WineJSON
		_ = json.Unmarshal([]byte(element.Text), &wineJSON)

		v.logger.Info("successfully scraped wine from JSON data", zap.Uint64("id", wineJSON.Sku), zap.String("name", wineJSON.Name))

		match.ImageURL = wineJSON.Image
		match.ExternalID = pointy.Uint64(wineJSON.Sku)

		if wineJSON.AggregateRating.ReviewCount > 0 {
			match.ExternalRating = pointy.Float64(wineJSON.AggregateRating.RatingValue)
		}
	})

	detailCollector.OnHTML(".wine-page", func(element *colly.HTMLElement) {
		wineContent := WineContent{}

		err := element.Unmarshal(&wineContent)
		if err != nil {
			return
		}

		if len(match.ImageURL) == 0 {
			match.ImageURL = wineContent.ImageURL
		}

		if match.ExternalRating == nil {
			rating, err := strconv.ParseFloat(wineContent.Rating, 64)
			if err == nil {
				match.ExternalRating = pointy.Float64(rating)
			}
		}

		if match.ABV == nil {
			match.ABV = extractABV(wineContent.ABV)
		}
	})

	idString := scraped.IDLink[strings.LastIndex(scraped.IDLink, "/")+1:]
	v.logger.Info("scraping wine page", zap.String("id", idString))

	err := detailCollector.Visit(v.baseURL + "/w/" + idString)
	if err == nil && match.ExternalID == nil {
		externalID, err := strconv.ParseUint(idString, 10, 64)
		if err == nil {
			match.ExternalID = pointy.Uint64(externalID)
		}
	}

	wineChan <- scrapeResults{matches: []model.WineMatch{match}, err: err}
}

func (v *VivinoWebIntegration) allowedHost() string {
	parsed, err := url.Parse(v.baseURL)
	if err != nil {
		return ""
	}

	return parsed.Host
}

func translateWineType(scraped string) string {
	for prefix, name := range wineTypeNames {
		if strings.HasPrefix(scraped, prefix) {
			return name
		}
	}

	return scraped
}

func extractVintage(details WineScraped) *int {
	vintage, err := strconv.Atoi(strings.TrimSpace(details.Vintage))
	if err != nil {
		return nil
	}

	return pointy.Int(vintage)
}

func extractABV(scraped string) *float64 {
	if strings.Contains(scraped, "%") {
		abv, _ := strconv.ParseFloat(strings.TrimSpace(scraped[:strings.Index(scraped, "%")]), 64) //nolint: gocritic // We know we won't get -1

		return &abv
	}

	return nil
}

func nonEmpty(value string) *string {
	if trimmed := strings.TrimSpace(value); len(trimmed) > 0 {
		return pointy.String(trimmed)
	}

	return nil
}
