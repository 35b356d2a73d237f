package utils

import (
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/mitchellh/mapstructure"
)

// StringToIntHookFunc 自定义 HookFunc，把字符串转换成整数（Redis Hash 和前端消息里的数字常是字符串）
func StringToIntHookFunc() mapstructure.DecodeHookFunc {
	return func(from reflect.Kind, to reflect.Kind, data interface{}) (interface{}, error) {
		if from != reflect.String {
			return data, nil
		}
		switch to {
		case reflect.Int:
			return strconv.Atoi(data.(string))
		case reflect.Int64:
			return strconv.ParseInt(data.(string), 10, 64)
		}
		return data, nil
	}
}

// FloatToIntHookFunc JSON 数字解码后是 float64，带小数的值不能当整数用
func FloatToIntHookFunc() mapstructure.DecodeHookFunc {
	return func(from reflect.Kind, to reflect.Kind, data interface{}) (interface{}, error) {
		if from != reflect.Float64 && from != reflect.Float32 {
			return data, nil
		}
		if to != reflect.Int && to != reflect.Int64 {
			return data, nil
		}
		f := reflect.ValueOf(data).Float()
		if f != math.Trunc(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%v 不是整数", data)
		}
		return data, nil
	}
}

// Decode 按 json tag 把 map 解码到结构体
func Decode(input interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(StringToIntHookFunc(), FloatToIntHookFunc()),
		Result:     out,
		TagName:    "json",
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}
