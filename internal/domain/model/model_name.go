package model

// ModelName is a closed set of model identifiers.
type ModelName string

// Known model names.
const (
	AlexNet ModelName = "alexnet"
	ResNet  ModelName = "resnet"
	LeNet   ModelName = "lenet"
)

var modelMessages = map[ModelName]string{
	AlexNet: "Deep Learning FTW!",
	LeNet:   "LeCNN all the images",
	ResNet:  "Have some residuals",
}

// ModelNames lists the members in declaration order.
func ModelNames() []ModelName {
	return []ModelName{AlexNet, ResNet, LeNet}
}

// Valid reports whether m is a member.
func (m ModelName) Valid() bool {
	_, ok := modelMessages[m]
	return ok
}

// Message is the fixed blurb for m; empty for non-members.
func (m ModelName) Message() string {
	return modelMessages[m]
}

func (m ModelName) String() string { return string(m) }
