package slot

import "reflect"

// deepCopy creates a proper deep copy of a value so that no references
// are shared between the store and its callers.
func deepCopy(value interface{}) interface{} {
	if value == nil {
		return nil
	}

	valueType := reflect.TypeOf(value)

	switch valueType.Kind() {
	case reflect.Ptr:
		// A nil pointer has nothing to copy; return it as-is.
		if reflect.ValueOf(value).IsNil() {
			return value
		}

		// For pointers, create a new instance and deep copy the target
		newInstance := reflect.New(valueType.Elem())

		elemValue := reflect.ValueOf(value).Elem().Interface()
		elemCopy := deepCopy(elemValue)

		newInstance.Elem().Set(reflect.ValueOf(elemCopy))
		return newInstance.Interface()

	case reflect.Struct:
		// Start from a shallow copy of the whole struct so unexported
		// fields carry over (they can't be set individually), then
		// replace the exported fields with deep copies.
		newStruct := reflect.New(valueType).Elem()
		newStruct.Set(reflect.ValueOf(value))

		for i := 0; i < valueType.NumField(); i++ {
			field := reflect.ValueOf(value).Field(i)
			if !field.CanInterface() {
				continue
			}

			fieldCopy := deepCopy(field.Interface())
			if fieldCopy == nil {
				// Nil interface field; the shallow copy already holds nil.
				continue
			}
			newStruct.Field(i).Set(reflect.ValueOf(fieldCopy))
		}

		return newStruct.Interface()

	case reflect.Map:
		// For maps, create a new map and deep copy all entries
		valueValue := reflect.ValueOf(value)
		newMap := reflect.MakeMap(valueType)

		iter := valueValue.MapRange()
		for iter.Next() {
			vCopy := deepCopy(iter.Value().Interface())
			if vCopy == nil {
				newMap.SetMapIndex(iter.Key(), reflect.Zero(valueType.Elem()))
				continue
			}
			newMap.SetMapIndex(iter.Key(), reflect.ValueOf(vCopy))
		}

		return newMap.Interface()

	case reflect.Slice:
		// For slices, create a new slice and deep copy all elements
		valueValue := reflect.ValueOf(value)
		newSlice := reflect.MakeSlice(valueType, valueValue.Len(), valueValue.Cap())

		for i := 0; i < valueValue.Len(); i++ {
			elemCopy := deepCopy(valueValue.Index(i).Interface())
			if elemCopy == nil {
				// Leave the zero value the new slice already holds.
				continue
			}
			newSlice.Index(i).Set(reflect.ValueOf(elemCopy))
		}

		return newSlice.Interface()

	case reflect.Array:
		// For arrays, create a new array and deep copy all elements
		valueValue := reflect.ValueOf(value)
		newArray := reflect.New(valueType).Elem()

		for i := 0; i < valueValue.Len(); i++ {
			elemCopy := deepCopy(valueValue.Index(i).Interface())
			if elemCopy == nil {
				continue
			}
			newArray.Index(i).Set(reflect.ValueOf(elemCopy))
		}

		return newArray.Interface()

	default:
		// For primitive types, a simple copy is sufficient
		return value
	}
}
