// Package dashboard serves summary charts over a crawled JSONL dataset.
package dashboard

import (
	"net/http"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/Xinyu-ham/SadGPT/internal/storage"
)

// topPostCount caps the pie chart to the busiest posts so it stays
// readable on large datasets.
const topPostCount = 15

// StartServer serves the stats page for the dataset at dataFile. Blocks
// until the listener fails.
func StartServer(dataFile, port string) error {
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		rows, err := storage.ReadJSONL(dataFile)
		if err != nil {
			http.Error(w, "dataset not readable: "+err.Error(), http.StatusInternalServerError)
			return
		}

		// 1. Records per post
		pie := charts.NewPie()
		pie.SetGlobalOptions(
			charts.WithTitleOpts(opts.Title{Title: "Records per Post"}),
			charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		)
		pie.AddSeries("Records", recordsPerPost(rows))

		// 2. Body length distribution
		bar := charts.NewBar()
		bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Body Length Distribution"}))
		labels, counts := lengthBuckets(rows)
		var barData []opts.BarData
		for _, c := range counts {
			barData = append(barData, opts.BarData{Value: c})
		}
		bar.SetXAxis(labels).AddSeries("Rows", barData)

		pie.Render(w)
		bar.Render(w)
	})

	return http.ListenAndServe(":"+port, nil)
}

func recordsPerPost(rows []map[string]string) []opts.PieData {
	counts := make(map[string]int)
	for _, row := range rows {
		counts[row["title"]]++
	}

	type entry struct {
		title string
		n     int
	}
	entries := make([]entry, 0, len(counts))
	for t, n := range counts {
		entries = append(entries, entry{t, n})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].n > entries[j].n })
	if len(entries) > topPostCount {
		entries = entries[:topPostCount]
	}

	var items []opts.PieData
	for _, e := range entries {
		items = append(items, opts.PieData{Name: e.title, Value: e.n})
	}
	return items
}

func lengthBuckets(rows []map[string]string) ([]string, []int) {
	labels := []string{"0-50", "51-200", "201-1000", "1000+"}
	counts := make([]int, len(labels))
	for _, row := range rows {
		body, ok := row["comment"]
		if !ok {
			body = row["text"]
		}
		switch n := len(body); {
		case n <= 50:
			counts[0]++
		case n <= 200:
			counts[1]++
		case n <= 1000:
			counts[2]++
		default:
			counts[3]++
		}
	}
	return labels, counts
}
