package core

import "go.opentelemetry.io/otel"

var tracer = otel.Tracer("trackwrestling.lib.scrapers.trackwrestling.core")
