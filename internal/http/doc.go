// Package http exposes listing assembly over a JSON API.
//
// The router exposes the following endpoints:
//   - POST /listing-needs: assembles listing needs. Body: {"batch_id"} to
//     assemble a stored batch, or {"candidates":[...]} with inline candidate
//     documents. Response: {"listing_needs":[...]} in emission order.
//   - PUT /candidate-batches/{batchID}, DELETE /candidate-batches/{batchID}:
//     store or remove a batch of candidates for later assembly.
//   - GET /earliest-hearing-date?notice_date=YYYY-MM-DD&referral_date=YYYY-MM-DD:
//     returns {"notice_date","referral_date","earliest_hearing_date"}.
//   - PUT /booking-slots/{reference}/{scheduleID}, DELETE /booking-slots/{reference}/{scheduleID}:
//     maintain the reservations consulted when booking references are compared.
//   - GET /healthz: liveness and storage check.
//   - GET /metrics: Prometheus exposition.
//
// Validation failures answer 422 with per-field messages, unknown batches 404,
// duplicate batches 409 and an unreachable slot registry 503.
package http
