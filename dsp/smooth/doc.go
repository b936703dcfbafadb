// Package smooth provides per-sample parameter smoothers for host-side
// parameter changes.
//
// Linear moves towards the target in equal steps. Logarithmic moves in
// equal ratios, which suits strictly positive coefficients such as
// bandwidth or damping whose audible effect is roughly logarithmic.
//
// Build with -tags fastmath to compute the logarithmic step with the
// algo-approx exp/log approximations.
package smooth
