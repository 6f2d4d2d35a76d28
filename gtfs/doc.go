/*
Package gtfs provides GTFS static data loading, indexing and the lookups the
route planner is built on.

This package is data-source agnostic - it accepts raw zip bytes or an
io.ReaderAt and builds typed, validated tables. It does NOT handle HTTP
downloads.

# Basic Usage

	tables, err := gtfs.ParseZip(gtfsZipBytes)
	if err != nil {
	    log.Fatal().Err(err).Msg("Could not parse gtfs")
	}
	index := gtfs.NewIndex(tables)

	near := gtfs.NearbyStops(utils.Point{Lat: 34.9858, Lon: 135.7588}, index.Stops(), 0)
	routes := index.RoutesServingBothStops(near[0].Stop.ID, "kinkakujimichi")
	fare := index.Fares().ResolveFare(routes[0].ID, near[0].Stop.ID, "kinkakujimichi")

# Validation

Rows missing required fields, with impossible coordinates, negative prices or
duplicate keys are dropped while parsing and counted in a warning log line.
Everything downstream can rely on ids and coordinates being present.

# Snapshots

An Index never changes after NewIndex. A refresh builds a new Index and
installs it with Store.Swap; readers holding the previous one are unaffected.

# Caching

Parse once at startup and keep the index in memory. Parsed tables can be
written to disk with SerializeTablesToFile and read back with
DeserializeTablesFromFile to skip the download on restart.
*/
package gtfs
