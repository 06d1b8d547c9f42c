// Package ipc provee el transporte line-delimited entre el agent y el terminal.
//
// # Arquitectura
//
// - Push: el agent escribe comandos "TRADE;<registro>\n"
// - Pull: el terminal responde con una línea JSON por mensaje
// - Transportes: TCP, Named Pipe cliente o Named Pipe servidor (Windows, go-winio)
// - Reconexión: responsabilidad del caller
//
// # Uso Básico
//
//	pipe, err := ipc.Dial(ctx, ipc.DefaultPipeConfig(ipc.TransportTCP, "127.0.0.1:32768"))
//	if err != nil {
//	    return err
//	}
//	defer pipe.Close()
//
//	w := ipc.NewCommandWriter(ipc.NewLineWriter(pipe), ipc.DefaultCommandPrefix)
//	if err := w.WriteCommand(rec); err != nil {
//	    return err
//	}
//
// # Lectura
//
//	reader := ipc.NewJSONReaderWithTimeout(pull, time.Second)
//	for {
//	    msg, err := reader.ReadMessage()
//	    if ipc.IsTimeout(err) {
//	        continue
//	    }
//	    if err != nil {
//	        break
//	    }
//	    // Procesar mensaje...
//	}
//
// Un vencimiento de deadline no invalida el reader: la línea parcial se
// conserva y la siguiente lectura la completa.
package ipc
