// Package geo provides the 3D geometry primitives the routing core is
// built on: great-circle (haversine) distance, elevation-aware segment
// and polyline length, cumulative elevation gain/loss, linear point
// interpolation, and planar segment-segment intersection in a local
// tangent projection.
//
// Coordinates are geographic (longitude, latitude in degrees) with an
// elevation component in meters. All returned distances are meters.
//
// Planar operations (segment intersection, local offsets) project
// coordinates into a local equirectangular frame around a reference
// latitude; at trail scale (tens of kilometers) the projection error is
// far below the snap tolerances used by the topology layer.
//
// The 2D type is orb.Point (lon, lat ordering); Point adds elevation.
package geo
