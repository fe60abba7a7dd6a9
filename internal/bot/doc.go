// Package bot — "склейка" вокруг bbapi, render, discord и health, реализующая
// бота-статуса для одного сервера BattleBit. Бот:
//   - раз в Interval забирает список серверов и ищет в нём сервер по имени;
//   - рисует аватар (картинка карты + код режима) и сохраняет исходную
//     картинку карты для баннера;
//   - выставляет активность "игроки/максимум - карта" и меняет аватар/баннер;
//   - если сервер не найден или список не получен — ставит заглушку
//     "server not found";
//   - после каждого тика обновляет общую отметку времени, которую читает
//     проверка живости (HTTP, 200/503).
//
// Жизненный цикл:
//   - Собрать зависимости и создать бота через New(...).
//   - Повесить bot.OnReady(ctx) на OnReady шлюза Discord: первый READY
//     запускает проверку живости и цикл опроса (Start), повторные — нет.
//   - Остановить отменой ctx и дождаться через Wait().
//
// Пример:
//
//	b := bot.New(opts, dir, renderer, bot.NewPublisher(session, log), &stamp, reporter, nil, log)
//	gw.OnReady = b.OnReady(ctx)
//	if err := gw.Connect(ctx); err != nil { log.Fatal().Err(err).Send() }
//	<-ctx.Done()
//	b.Wait()
package bot
