package domain

// BoundingBox задаёт положение экземпляра в долях от размеров изображения
type BoundingBox struct {
	Width  float32 `json:"Width"`
	Height float32 `json:"Height"`
	Left   float32 `json:"Left"`
	Top    float32 `json:"Top"`
}

// Instance один найденный экземпляр объекта с меткой
type Instance struct {
	BoundingBox BoundingBox `json:"BoundingBox"`
	Confidence  float32     `json:"Confidence"`
}

// Parent метка-предок в иерархии меток
type Parent struct {
	Name string `json:"Name"`
}

// Annotation метка, которую вернул сервис распознавания
type Annotation struct {
	Name       string     `json:"Name"`
	Confidence float32    `json:"Confidence"` // 0-100
	Instances  []Instance `json:"Instances"`
	Parents    []Parent   `json:"Parents"`
}

// EvaluationResult запись, которая пишется в хранилище.
// Body содержит не более одного элемента: полный список аннотаций.
type EvaluationResult struct {
	Status string         `json:"Status"`
	Body   [][]Annotation `json:"body"`
}

// ImageRef расположение загруженного изображения
type ImageRef struct {
	Bucket string
	Key    string
}

// Detection результат вызова сервиса распознавания: либо аннотации, либо причина отказа
type Detection struct {
	Annotations []Annotation
	Err         error
}

func (d Detection) Failed() bool {
	return d.Err != nil
}
