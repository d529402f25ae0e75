package ir

type (
	// главные сущности
	OpID     uint32
	BlockID  uint32
	RegionID uint32
)

const (
	NoOpID     OpID     = 0
	NoBlockID  BlockID  = 0
	NoRegionID RegionID = 0
)

func (id OpID) IsValid() bool     { return id != NoOpID }
func (id BlockID) IsValid() bool  { return id != NoBlockID }
func (id RegionID) IsValid() bool { return id != NoRegionID }
