package main

import (
	"encoding/csv"
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/lintang-b-s/waymatch/pkg/costfunction"
	"github.com/lintang-b-s/waymatch/pkg/datastructure"
	"github.com/lintang-b-s/waymatch/pkg/engine/matching"
	"github.com/lintang-b-s/waymatch/pkg/geo"
	"github.com/lintang-b-s/waymatch/pkg/logger"
	"github.com/lintang-b-s/waymatch/pkg/spatialindex"
	"go.uber.org/zap"
)

var (
	graphFile             = flag.String("graph", "./data/waymatch.graph", "road network graph file")
	tripFile              = flag.String("trips", "./data/trips.csv", "input csv, one row per trip: trip id and encoded gps polyline")
	outFile               = flag.String("out", "./data/matched_trips.csv", "output csv of matched trip legs")
	leafBoundingBoxRadius = flag.Float64("leaf_bounding_box_radius", 0.05, "leaf node (r-tree) bounding box radius in km")
	samplingInterval      = flag.Duration("sampling_interval", 5*time.Second, "assumed gps sampling interval of the traces")
)

func main() {
	flag.Parse()
	log, err := logger.New()
	if err != nil {
		panic(err)
	}

	graph, err := datastructure.ReadGraph(*graphFile)
	if err != nil {
		log.Fatal("read graph file", zap.Error(err))
	}

	rtree := spatialindex.NewRtree()
	rtree.Build(graph, *leafBoundingBoxRadius, log)

	hmm := matching.NewHMMMapMatching(graph, rtree, costfunction.NewFastestCostFunction(), log)

	trips, err := readTrips(*tripFile)
	if err != nil {
		log.Fatal("read trip file", zap.Error(err))
	}

	out, err := os.Create(*outFile)
	if err != nil {
		log.Fatal("create output file", zap.Error(err))
	}
	defer out.Close()

	w := csv.NewWriter(out)
	defer w.Flush()

	if err := w.Write([]string{"id", "order", "origin_lat", "origin_long",
		"destination_lat", "destination_long", "trip_event", "osm_way_id"}); err != nil {
		log.Fatal("write output header", zap.Error(err))
	}

	matchedTrips := 0
	for _, trip := range trips {
		matched, err := hmm.MapMatch(trip.observations)
		if err != nil {
			log.Warn("skipping trip", zap.String("trip_id", trip.id), zap.Error(err))
			continue
		}
		if err := writeTripLegs(w, trip.id, matched); err != nil {
			log.Fatal("write matched trip", zap.Error(err))
		}
		matchedTrips++
	}

	log.Info("map matching finished",
		zap.Int("trips", len(trips)),
		zap.Int("matched", matchedTrips),
		zap.String("output", *outFile))
}

type trip struct {
	id           string
	observations []datastructure.GPSPoint
}

// readTrips parses rows of "tripId,encodedPolyline". timestamps are
// synthesized from the assumed sampling interval since the traces carry none.
func readTrips(filename string) ([]trip, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 2

	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	trips := make([]trip, 0, len(rows))
	for _, row := range rows {
		coords, err := geo.CoordsFromPolyline(row[1])
		if err != nil {
			return nil, err
		}

		observations := make([]datastructure.GPSPoint, 0, len(coords))
		for i, c := range coords {
			ts := start.Add(time.Duration(i) * *samplingInterval)
			observations = append(observations, datastructure.NewGPSPoint(i, c.GetLat(), c.GetLon(), ts))
		}
		trips = append(trips, trip{id: row[0], observations: observations})
	}
	return trips, nil
}

// writeTripLegs emits one row per leg between consecutive matched points,
// tagged start / route / end in travel order.
func writeTripLegs(w *csv.Writer, tripId string, matched []datastructure.MatchedPoint) error {
	for i := 1; i < len(matched); i++ {
		prev := matched[i-1].GetProjection()
		curr := matched[i].GetProjection()

		// the final leg wins the "end" tag, so a two point trip still closes
		event := "route"
		if i == len(matched)-1 {
			event = "end"
		} else if i == 1 {
			event = "start"
		}

		row := []string{
			tripId,
			strconv.Itoa(i - 1),
			strconv.FormatFloat(prev.GetLat(), 'f', -1, 64),
			strconv.FormatFloat(prev.GetLon(), 'f', -1, 64),
			strconv.FormatFloat(curr.GetLat(), 'f', -1, 64),
			strconv.FormatFloat(curr.GetLon(), 'f', -1, 64),
			event,
			strconv.FormatInt(matched[i].GetWayID(), 10),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
