// Package locgraph models the POR catalog's served-city and
// administrative-hierarchy relationships as a graph in Neo4j, adapted
// from the teacher's db/neo4j.go driver-wrapping style. It sits outside
// the hot query path (spec §5): the core matcher never depends on it.
package locgraph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/trepgo/opentrep/location"
	"github.com/trepgo/opentrep/poterrors"
)

// Graph wraps a neo4j.DriverWithContext for served-city/admin-hierarchy
// traversal queries.
type Graph struct {
	driver neo4j.DriverWithContext
}

// Open connects to uri with basic auth and verifies connectivity.
func Open(ctx context.Context, uri, username, password string) (*Graph, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, poterrors.Wrap(poterrors.SqlDatabase, "connect neo4j", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, poterrors.Wrap(poterrors.SqlDatabase, "verify neo4j connectivity", err)
	}
	return &Graph{driver: driver}, nil
}

// Close releases the underlying driver.
func (g *Graph) Close(ctx context.Context) error {
	return g.driver.Close(ctx)
}

// UpsertRecord merges one (:POR) node plus its (:POR)-[:SERVES]->(:City)
// relationships, plus a (:POR)-[:WITHIN]->(:Admin1) relationship when
// Admin1.Code is non-empty, keyed on IATA code and Geonames id. Admin2-4
// are not recorded in the graph.
func (g *Graph) UpsertRecord(ctx context.Context, rec *location.Record) error {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, `
			MERGE (p:POR {iataCode: $iata, geonamesId: $geonamesId})
			SET p.commonName = $name, p.countryCode = $country
			WITH p
			FOREACH (city IN $cities |
				MERGE (c:City {iataCode: city.iataCode})
				MERGE (p)-[:SERVES]->(c)
			)
			FOREACH (ignore IN CASE WHEN $admin1 <> '' THEN [1] ELSE [] END |
				MERGE (a1:Admin1 {code: $admin1, countryCode: $country})
				MERGE (p)-[:WITHIN]->(a1)
			)
		`, map[string]any{
			"iata":       rec.Key.IATACode,
			"geonamesId": rec.Key.GeonamesID,
			"name":       rec.CommonName,
			"country":    rec.CountryCode,
			"admin1":     rec.Admin1.Code,
			"cities":     servedCityParams(rec.ServedCities),
		})
		return nil, err
	})
	if err != nil {
		return poterrors.Wrap(poterrors.SqlDatabase, "upsert por node", err)
	}
	return nil
}

func servedCityParams(cities []location.ServedCity) []map[string]any {
	params := make([]map[string]any, len(cities))
	for i, c := range cities {
		params[i] = map[string]any{"iataCode": c.IATACode}
	}
	return params
}

// ServedCities returns the IATA codes of cities the POR with iataCode
// serves, traversing (:POR)-[:SERVES]->(:City).
func (g *Graph) ServedCities(ctx context.Context, iataCode string) ([]string, error) {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		records, err := tx.Run(ctx,
			`MATCH (:POR {iataCode: $iata})-[:SERVES]->(c:City) RETURN c.iataCode AS code`,
			map[string]any{"iata": iataCode})
		if err != nil {
			return nil, err
		}
		var codes []string
		for records.Next(ctx) {
			code, _ := records.Record().Get("code")
			if s, ok := code.(string); ok {
				codes = append(codes, s)
			}
		}
		return codes, records.Err()
	})
	if err != nil {
		return nil, poterrors.Wrap(poterrors.SqlDatabase, "served cities query", err)
	}
	codes, _ := result.([]string)
	return codes, nil
}

// AdminSiblings returns the IATA codes of other PORs sharing the same
// Admin1 region as iataCode, traversing the WITHIN relationship both ways.
func (g *Graph) AdminSiblings(ctx context.Context, iataCode string) ([]string, error) {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		records, err := tx.Run(ctx, `
			MATCH (:POR {iataCode: $iata})-[:WITHIN]->(a:Admin1)<-[:WITHIN]-(sibling:POR)
			WHERE sibling.iataCode <> $iata
			RETURN sibling.iataCode AS code
		`, map[string]any{"iata": iataCode})
		if err != nil {
			return nil, err
		}
		var codes []string
		for records.Next(ctx) {
			code, _ := records.Record().Get("code")
			if s, ok := code.(string); ok {
				codes = append(codes, s)
			}
		}
		return codes, records.Err()
	})
	if err != nil {
		return nil, poterrors.Wrap(poterrors.SqlDatabase, "admin siblings query", err)
	}
	codes, _ := result.([]string)
	return codes, nil
}
