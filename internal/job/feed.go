package job

import (
	"fmt"
	"time"

	"github.com/gorilla/feeds"
	"github.com/pkg/errors"
)

// Feed renders the jobs as an RSS document. siteURL is the dashboard's public
// address and is used as the channel link.
func Feed(siteName, siteURL string, jobs []Job, now time.Time) (string, error) {
	feed := &feeds.Feed{
		Title:       fmt.Sprintf("%s Jobs", siteName),
		Link:        &feeds.Link{Href: siteURL},
		Description: fmt.Sprintf("Job listings discovered by %s", siteName),
		Created:     now,
	}
	for _, j := range jobs {
		title := fmt.Sprintf("%s with %s", j.Title, j.Company)
		if j.Location != "" {
			title = fmt.Sprintf("%s - %s", title, j.Location)
		}
		feed.Items = append(feed.Items, &feeds.Item{
			Id:      fmt.Sprintf("%d", j.ID),
			Title:   title,
			Link:    &feeds.Link{Href: j.URL},
			Created: j.DiscoveredAt,
		})
	}
	rss, err := feed.ToRss()
	if err != nil {
		return "", errors.Wrap(err, "unable to render jobs feed")
	}
	return rss, nil
}
