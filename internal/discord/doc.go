// Package discord реализует минимальный клиент Discord для бота-статуса:
// WebSocket-шлюз (Gateway) и REST-вызов редактирования профиля.
//
// Шлюз умеет:
//   - подключаться к wss://gateway.discord.gg (JSON-кодировка), ждать Hello,
//     запускать heartbeat и отправлять Identify без привилегированных intents;
//   - выставлять активность бота ("Играет в ...") через Presence Update;
//   - переподключаться с экспоненциальным backoff при обрыве, Reconnect (op 7)
//     или Invalid Session (op 9); последняя активность уходит в Identify заново.
//
// События (колбэки полей структуры):
//   - OnConnecting, OnReady, OnDisconnected, OnError.
//
// REST:
//   - EditProfile меняет аватар и (опционально) баннер бота через
//     PATCH /users/@me; частота ограничивается rate.Limiter.
//
// Пример:
//
//	gw := discord.NewGateway(token, log)
//	gw.OnReady = func(u discord.User) { log.Info().Str("user", u.Username).Msg("ready") }
//	if err := gw.Connect(ctx); err != nil { log.Fatal().Err(err).Send() }
//	defer gw.Disconnect()
//
//	_ = gw.SetActivity("10/64 - Cobalt")
package discord
