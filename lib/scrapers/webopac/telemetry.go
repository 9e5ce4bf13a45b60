package webopac

import (
	"bibassist-backend/lib/restyutil"
	"bibassist-backend/lib/telemetry"
)

var tracer = telemetry.Tracer("bibassist.lib.scrapers.webopac")
var restyInstrumentOutput restyutil.InstrumentOutput

func SetRestyInstrumentOutput(out restyutil.InstrumentOutput) {
	restyInstrumentOutput = out
}
