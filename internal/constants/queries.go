package constants

// Queries are written with '?' placeholders and rebound per driver by sqlx.
//
// Latest-per-group is resolved inside a single statement: the correlated subquery
// picks the newest snapshot id for the outer row's (route, airline) group, ordering
// by fetched_at and then id so ties fall to the later insert.
const (
	latestSnapshotPredicate = `
	ps.id = (
		SELECT latest.id FROM price_snapshots latest
		WHERE latest.route_id = ps.route_id AND latest.airline_code = ps.airline_code
		ORDER BY latest.fetched_at DESC, latest.id DESC
		LIMIT 1
	)`

	SelectLatestPrices = `
	SELECT ps.id, ps.route_id, ps.airline_code, ps.price, ps.currency, ps.cabin_class,
	       ps.departure_date, ps.return_date, ps.fetched_at, ps.source,
	       r.origin, r.destination, r.origin_city, r.destination_city, r.region,
	       a.name AS airline_name
	FROM price_snapshots ps
	JOIN routes r ON r.id = ps.route_id
	JOIN airlines a ON a.iata_code = ps.airline_code
	WHERE` + latestSnapshotPredicate

	SelectLowestLatestPrice = `
	SELECT ps.price, ps.airline_code, a.name AS airline_name, ps.fetched_at
	FROM price_snapshots ps
	JOIN airlines a ON a.iata_code = ps.airline_code
	WHERE ps.route_id = ? AND` + latestSnapshotPredicate

	SelectPriceHistory = `
	SELECT ps.id, ps.route_id, ps.airline_code, a.name AS airline_name, ps.price, ps.currency,
	       ps.cabin_class, ps.departure_date, ps.return_date, ps.fetched_at, ps.source
	FROM price_snapshots ps
	JOIN airlines a ON a.iata_code = ps.airline_code
	WHERE ps.route_id = ? AND ps.fetched_at >= ?`

	OrderByPriceAsc     = ` ORDER BY ps.price ASC, ps.airline_code ASC`
	OrderByFetchedAtAsc = ` ORDER BY ps.fetched_at ASC, ps.id ASC`
	FilterRouteID       = ` AND ps.route_id = ?`
	FilterAirlineCode   = ` AND ps.airline_code = ?`
	LimitOne            = ` LIMIT 1`
)
