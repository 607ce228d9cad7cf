package interpret

import "github.com/oiorda/orda/core/i18n"

func init() {
	i18n.MustRegisterAll(map[string]map[i18n.Lang]string{
		"interpret.title.results": {i18n.RU: "Итоги", i18n.EN: "Results", i18n.KK: "Нәтижелер"},
		"interpret.saved":         {i18n.RU: "Результаты сохранены.", i18n.EN: "Results saved.", i18n.KK: "Нәтиже сақталды."},
		"interpret.na":            {i18n.RU: "н/д", i18n.EN: "n/a", i18n.KK: "жоқ"},
		"interpret.psych_only": {
			i18n.RU: "Подробная интерпретация и дальнейшие шаги доступны школьному психологу.",
			i18n.EN: "A detailed interpretation and next steps are available to the school psychologist.",
			i18n.KK: "Толық түсіндірме мен келесі қадамдар мектеп психологына қолжетімді.",
		},

		"band.low":    {i18n.RU: "низкий", i18n.EN: "low", i18n.KK: "төмен"},
		"band.medium": {i18n.RU: "средний", i18n.EN: "medium", i18n.KK: "орта"},
		"band.high":   {i18n.RU: "высокий", i18n.EN: "high", i18n.KK: "жоғары"},

		"mbti.E": {i18n.RU: "Экстраверсия", i18n.EN: "Extraversion", i18n.KK: "Экстраверсия"},
		"mbti.I": {i18n.RU: "Интроверсия", i18n.EN: "Introversion", i18n.KK: "Интроверсия"},
		"mbti.S": {i18n.RU: "Ощущение", i18n.EN: "Sensing", i18n.KK: "Сезіну"},
		"mbti.N": {i18n.RU: "Интуиция", i18n.EN: "Intuition", i18n.KK: "Интуиция"},
		"mbti.T": {i18n.RU: "Мышление", i18n.EN: "Thinking", i18n.KK: "Ойлау"},
		"mbti.F": {i18n.RU: "Чувство", i18n.EN: "Feeling", i18n.KK: "Сезім"},
		"mbti.J": {i18n.RU: "Суждение", i18n.EN: "Judging", i18n.KK: "Бағалау"},
		"mbti.P": {i18n.RU: "Восприятие", i18n.EN: "Perceiving", i18n.KK: "Қабылдау"},
		"mbti.your_type": {
			i18n.RU: "Ваш тип: <b>{0}</b>.",
			i18n.EN: "Your type: <b>{0}</b>.",
			i18n.KK: "Сіздің типіңіз: <b>{0}</b>.",
		},
		"mbti.disclaimer": {
			i18n.RU: "Это описание предпочтений, а не диагноз.",
			i18n.EN: "This is a description of preferences, not a diagnosis.",
			i18n.KK: "Бұл бағалау емес, қалаулардың сипаттамасы.",
		},

		"holland.ranking": {
			i18n.RU: "Рейтинг кодов RIASEC: <b>{0}</b>.",
			i18n.EN: "RIASEC ranking: <b>{0}</b>.",
			i18n.KK: "RIASEC кодтарының рейтингі: <b>{0}</b>.",
		},
		"holland.top3": {
			i18n.RU: "Топ-3 коды интересов: <b>{0}</b>.",
			i18n.EN: "Top-3 codes: <b>{0}</b>.",
			i18n.KK: "Үздік 3 код: <b>{0}</b>.",
		},
		"holland.advice": {
			i18n.RU: "Подбирайте профили и практики под ведущие коды.",
			i18n.EN: "Align studies with the leading codes.",
			i18n.KK: "Жетекші кодтарға сай пәндер таңдаңыз.",
		},

		"klimov.H": {i18n.RU: "Человек-человек", i18n.EN: "Person-Person", i18n.KK: "Адам-адам"},
		"klimov.T": {i18n.RU: "Человек-техника", i18n.EN: "Person-Technology", i18n.KK: "Адам-техника"},
		"klimov.N": {i18n.RU: "Человек-природа", i18n.EN: "Person-Nature", i18n.KK: "Адам-табиғат"},
		"klimov.S": {i18n.RU: "Человек-знаковая система", i18n.EN: "Person-Sign system", i18n.KK: "Адам-таңбалық жүйе"},
		"klimov.A": {i18n.RU: "Человек-художественный образ", i18n.EN: "Person-Artistic image", i18n.KK: "Адам-көркем бейне"},
		"klimov.title": {
			i18n.RU: "Климов: ведущий тип — {0}",
			i18n.EN: "Klimov: leading type — {0}",
			i18n.KK: "Климов: жетекші тип — {0}",
		},
		"klimov.ranking": {
			i18n.RU: "Рейтинг типов: <b>{0}</b>.",
			i18n.EN: "Type ranking: <b>{0}</b>.",
			i18n.KK: "Типтер рейтингі: <b>{0}</b>.",
		},
		"klimov.lead": {
			i18n.RU: "Ведущий тип: <b>{0}</b>. Подберите профиль и учебные активности под него.",
			i18n.EN: "Leading type: <b>{0}</b>. Choose a study profile and activities that fit it.",
			i18n.KK: "Жетекші тип: <b>{0}</b>. Оған сай бейін мен оқу белсенділігін таңдаңыз.",
		},

		"kos2.title": {i18n.RU: "КОС-2", i18n.EN: "KOS-2", i18n.KK: "КОС-2"},
		"kos2.comm": {
			i18n.RU: "Коммуникативные: <b>{0}</b> — {1}.",
			i18n.EN: "Communication: <b>{0}</b> — {1}.",
			i18n.KK: "Коммуникативтік: <b>{0}</b> — {1}.",
		},
		"kos2.org": {
			i18n.RU: "Организаторские: <b>{0}</b> — {1}.",
			i18n.EN: "Leadership/organization: <b>{0}</b> — {1}.",
			i18n.KK: "Ұйымдастыру: <b>{0}</b> — {1}.",
		},

		"bennett.spatial": {
			i18n.RU: "Пространственное мышление: ≈{0}% — <b>{1}</b>.",
			i18n.EN: "Spatial ability: ≈{0}% — <b>{1}</b>.",
			i18n.KK: "Кеңістіктік ойлау: ≈{0}% — <b>{1}</b>.",
		},

		"scales.title.interests":  {i18n.RU: "Карта интересов", i18n.EN: "Interest map", i18n.KK: "Қызығушылықтар картасы"},
		"scales.title.thinking":   {i18n.RU: "Тип мышления", i18n.EN: "Thinking style", i18n.KK: "Ойлау типі"},
		"scales.title.child_type": {i18n.RU: "Тип личности ребёнка", i18n.EN: "Child personality type", i18n.KK: "Баланың тұлға типі"},
		"scales.leading": {
			i18n.RU: "Ведущие шкалы: <b>{0}</b>.",
			i18n.EN: "Leading scales: <b>{0}</b>.",
			i18n.KK: "Жетекші шкалалар: <b>{0}</b>.",
		},

		"cdi.title": {i18n.RU: "CDI: сводка", i18n.EN: "CDI: summary", i18n.KK: "CDI: қорытынды"},
		"cdi.total": {
			i18n.RU: "Суммарный показатель: <b>{0}</b> ({1}).",
			i18n.EN: "Total score: <b>{0}</b> ({1}).",
			i18n.KK: "Жиынтық көрсеткіш: <b>{0}</b> ({1}).",
		},
	})
}
