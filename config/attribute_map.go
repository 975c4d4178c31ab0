package config

import (
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
)

// AttributeMap is a loosely typed set of driver specific attributes.
type AttributeMap map[string]interface{}

// TransformAttributeMapToStruct decodes attributes into to, matching keys by json tag. Unknown
// attributes are an error.
func TransformAttributeMapToStruct(to interface{}, attributes AttributeMap) (interface{}, error) {
	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:  "json",
		Result:   to,
		Metadata: &md,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(map[string]interface{}(attributes)); err != nil {
		return nil, err
	}
	if len(md.Unused) != 0 {
		return nil, errors.Errorf("unknown attributes %v", md.Unused)
	}
	return to, nil
}
