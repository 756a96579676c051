package domain

// Farm a registered farm (farms table). Exactly one sensor per farm;
// (owner_id, name, location) is unique.
type Farm struct {
	FarmID   string `db:"farm_id"` // UUID
	OwnerID  string `db:"owner_id"`
	Name     string `db:"name"`
	Location string `db:"location"` // one of the Rwandan districts
}

// ToJSON for HTTP responses.
func (f *Farm) ToJSON() map[string]any {
	return map[string]any{
		"farm_id":  f.FarmID,
		"owner_id": f.OwnerID,
		"name":     f.Name,
		"location": f.Location,
	}
}

// FarmWithSensor farm joined with its sensor, for list/detail views.
type FarmWithSensor struct {
	Farm
	Sensor *Sensor
}

func (f *FarmWithSensor) ToJSON() map[string]any {
	m := f.Farm.ToJSON()
	if f.Sensor != nil {
		m["sensor"] = f.Sensor.ToJSON()
	} else {
		m["sensor"] = nil
	}
	return m
}
