package ports

import "overland/internal/domain/world"

type WorldMetrics interface {
	RecordGenerated(report world.GenReport)
	RecordRoadBuilt(cost float64)
	RecordNoPath()
	RecordTick(resources int)
}
