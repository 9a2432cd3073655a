// Package sanitizer normalizes untrusted beacon fields before they are stored.
//
// Every function in this package is pure, total and deterministic: it never
// returns an error and never panics. Anything that cannot be parsed with
// confidence becomes nil ("absent") rather than a partially redacted value.
//
// Normalization includes:
//   - IP addresses: IPv4 keeps the first two octets (a.b.x.x), IPv6 keeps the
//     leading groups and masks the rest with five x groups
//   - Private networks: coarse prefix check used to drop internal traffic
//   - Referrers: reduced to scheme://host/path, query and fragment dropped
//   - User agents: classified into a coarse "<OS>, <Browser>" label
//   - Free text: markup characters stripped, IPv4 and email literals
//     redacted, length bounded
package sanitizer
