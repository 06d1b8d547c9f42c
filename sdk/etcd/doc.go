// Package etcd proporciona el cliente de configuración remota de echo-dwx.
//
// Las claves viven bajo `/APP/ENV/VAR_KEY`:
//   - `APP`: echo-dwx por defecto
//   - `ENV`: variable de entorno ENV (development por defecto)
//   - `VAR_KEY`: clave relativa, por ejemplo `endpoints/push_addr`
//
// Ejemplo:
//
//	client, err := etcd.New(etcd.WithEnv("production"))
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	addr, _ := client.GetVarWithDefault(ctx, "endpoints/push_addr", "127.0.0.1:32768")
//
// Los métodos *WithDefault nunca fallan: una clave ausente o un etcd caído
// devuelven el valor por defecto.
package etcd
