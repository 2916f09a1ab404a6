package stats

import "strings"

// Las llaves de caché se construyen de forma determinista:
//
//	stats:<nombre>:v1:<partes del alcance en orden fijo>
//
// Dos llamadas con el mismo alcance lógico producen la misma llave; de lo
// contrario la caché nunca acierta. Las partes vacías se normalizan ("all").
const (
	keyPrefix  = "stats"
	keyVersion = "v1"

	dayLayout = "2006-01-02"
)

// Key arma la llave de una estadística.
func Key(name string, parts ...string) string {
	b := make([]string, 0, len(parts)+2)
	b = append(b, keyPrefix, name, keyVersion)
	b = append(b, parts...)
	return strings.Join(b, ":")
}

// Pattern arma un patrón glob de purga para un nombre de estadística.
func Pattern(name string) string {
	return keyPrefix + ":" + name + ":*"
}

// scopeAll normaliza un id de bodega vacío a "all".
func scopeAll(warehouseID string) string {
	if warehouseID == "" {
		return "all"
	}
	return warehouseID
}
