package sources

import "github.com/DeafMist/news-radar/internal/models"

// defaultFeeds lists the built-in outlets. Some outlets appear twice with
// the same or an alternate endpoint; both entries are fetched.
var defaultFeeds = []models.FeedSource{
	{Endpoint: "https://www.reuters.com/news/rss", Label: "Reuters"},
	{Endpoint: "https://www.timesofisrael.com/feed/", Label: "The Times of Israel"},
	{Endpoint: "https://www.jpost.com/Rss/RssFeedsHeadlines.aspx", Label: "The Jerusalem Post"},
	{Endpoint: "https://www.haaretz.co.il/rss/1.1", Label: "Haaretz"},
	{Endpoint: "https://www.ynetnews.com/RSS/news.xml", Label: "Ynetnews"},
	{Endpoint: "https://www.i24news.tv/en/rss", Label: "i24NEWS"},
	{Endpoint: "https://www.aljazeera.com/xml/rss/all.xml", Label: "Al Jazeera"},
	{Endpoint: "https://www.cnn.com/rss", Label: "CNN"},
	{Endpoint: "https://www.ap.org/rss", Label: "Associated Press (AP)"},
	{Endpoint: "https://www.bbc.com/news/rss.xml", Label: "BBC News"},
	{Endpoint: "https://www.theguardian.com/world/rss", Label: "The Guardian"},
	{Endpoint: "https://rss.nytimes.com/services/xml/rss/nyt/World.xml", Label: "The New York Times"},
	{Endpoint: "https://feeds.washingtonpost.com/rss/world", Label: "The Washington Post"},
	{Endpoint: "https://www.lemonde.fr/rss/une.xml", Label: "Le Monde"},
	{Endpoint: "https://feeds.elpais.com/mrss-s/pages/elpais/portada/", Label: "El País"},
	{Endpoint: "https://972mag.com/feed/", Label: "+972 Magazine"},
	{Endpoint: "https://www.palestinechronicle.com/feed/", Label: "Palestine Chronicle"},
	{Endpoint: "https://www.allisrael.com/rss", Label: "All Israel News"},
	{Endpoint: "https://www.middleeasteye.net/rss", Label: "Middle East Eye"},
	{Endpoint: "https://www.independent.co.uk/rss", Label: "The Independent"},
	{Endpoint: "https://www.google.com/alerts/feeds/1234567890/news", Label: "Google News"},
	{Endpoint: "https://www.maariv.co.il/rss", Label: "Maariv"},
	{Endpoint: "https://www.israelhayom.co.il/rss", Label: "Israel Hayom"},
	{Endpoint: "https://www.walla.co.il/rss", Label: "Walla!"},
	{Endpoint: "https://www.timesofisrael.com/feed/", Label: "The Times of Israel"},
	{Endpoint: "https://www.jpost.com/Rss/RssFeedsHeadlines.aspx", Label: "The Jerusalem Post"},
	{Endpoint: "https://www.haaretz.com/rss", Label: "Haaretz (English)"},
	{Endpoint: "https://www.israelnationalnews.com/rss", Label: "Israel National News (Arutz Sheva)"},
	{Endpoint: "https://www.i24news.tv/en/rss", Label: "i24NEWS"},
	{Endpoint: "https://www.israelhayom.com/feed/", Label: "Israel Hayom"},
	{Endpoint: "https://www.allisrael.com/rss", Label: "All Israel News"},
	{Endpoint: "https://www.ynetnews.com/category/3082", Label: "Ynetnews"},
	{Endpoint: "https://www.walla.co.il/feed", Label: "Walla! News"},
	{Endpoint: "https://www.maariv.co.il/Rss/RssFeedsHeadlines.aspx", Label: "Maariv (English)"},
	{Endpoint: "https://www.makorrishon.co.il/feed/", Label: "Makor Rishon"},
	{Endpoint: "https://www.globes.co.il/webservice/rss/rssfeeder.asp", Label: "Globes"},
	{Endpoint: "https://www.themarker.com/cmlink/1.1459119", Label: "TheMarker"},
	{Endpoint: "https://www.jfeed.com/feed/", Label: "JFeed"},
	{Endpoint: "https://www.debka.com/feed/", Label: "DEBKAfile"},
	{Endpoint: "https://www.hamodia.com/feed/", Label: "Hamodia"},
	{Endpoint: "https://www.jta.org/feed", Label: "Jewish Telegraphic Agency (JTA)"},
	{Endpoint: "https://www.jewishpress.com/feed/", Label: "The Jewish Press"},
	{Endpoint: "https://www.israel21c.org/feed/", Label: "ISRAEL21c"},
	{Endpoint: "https://www.jewishjournal.com/feed/", Label: "Jewish Journal"},
	{Endpoint: "https://www.algemeiner.com/feed/", Label: "The Algemeiner"},
	{Endpoint: "https://www.chabad.org/tools/rss.htm", Label: "Chabad.org"},
	{Endpoint: "https://www.jewishfeeds.com/rss", Label: "Jewish Feeds"},
	{Endpoint: "https://israelnow.news/feed/", Label: "Israel Now"},
	{Endpoint: "https://www.albawaba.com/rss", Label: "Al Bawaba"},
	{Endpoint: "https://tps.co.il/tpsnews-rss/", Label: "Tazpit Press Service (TPS)"},
}
