package main

import (
	"encoding/csv"
	"flag"
	"os"
	"strconv"

	"github.com/lintang-b-s/waymatch/pkg/osmparser"

	"github.com/lintang-b-s/waymatch/pkg/logger"
	"go.uber.org/zap"
)

var (
	mapFile         = flag.String("map", "./data/solo_jogja.osm.pbf", "openstreetmap pbf file")
	outFile         = flag.String("out", "./data/waymatch.graph", "output graph file")
	restrictionFile = flag.String("restrictions", "./data/restrictions.csv", "output turn restriction file")
	useMaxSpeed     = flag.Bool("use_maxspeed", false, "derive edge speed from road class default maxspeed instead of the maxspeed tag fallback")
)

func main() {
	flag.Parse()
	log, err := logger.New()
	if err != nil {
		panic(err)
	}

	parser := osmparser.NewOsmParser()
	graph, err := parser.Parse(*mapFile, log, *useMaxSpeed)
	if err != nil {
		log.Fatal("parse osm pbf", zap.Error(err))
	}

	log.Info("road network parsed",
		zap.Int("vertices", graph.NumberOfVertices()),
		zap.Int("edges", graph.NumberOfEdges()))

	if err := graph.WriteGraph(*outFile); err != nil {
		log.Fatal("write graph file", zap.Error(err))
	}

	restrictions := parser.EdgeRestrictions(graph)
	if err := writeRestrictions(*restrictionFile, restrictions); err != nil {
		log.Fatal("write restriction file", zap.Error(err))
	}

	log.Info("graph build completed",
		zap.String("graph", *outFile),
		zap.Int("turn_restrictions", len(restrictions)))
}

// writeRestrictions stores restricted edge pairs as "fromEdge,toEdge" rows.
func writeRestrictions(filename string, restrictions []osmparser.EdgeRestriction) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	for _, r := range restrictions {
		row := []string{
			strconv.FormatInt(int64(r.GetFromEdge()), 10),
			strconv.FormatInt(int64(r.GetToEdge()), 10),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
