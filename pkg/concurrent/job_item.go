package concurrent

// BucketWay compact openstreetmap way as stored in one h3 street bucket.
// Polyline carries the way geometry, NodeIDs the matching osm node ids.
type BucketWay struct {
	ID       int64
	NodeIDs  []int64
	Polyline string
	Tags     map[string]string
}

type SaveBucketJobItem struct {
	KeyStr string
	ValArr []BucketWay
}

type JobI interface {
	SaveBucketJobItem
}

type JobFunc[T JobI, G any] func(job T) G
