package detection

// builtinKeywords maps each section to the heading texts recognized for it.
// Languages: en, de, fr, es, it, pt, nl, ru, pl, cs, sv, zh, ja, ko, tr.
var builtinKeywords = map[SectionType][]string{
	SectionAbstract: {
		"abstract", "summary", "executive summary",
		"zusammenfassung", "kurzfassung",
		"résumé",
		"resumen",
		"sommario", "riassunto",
		"resumo",
		"samenvatting",
		"аннотация", "реферат",
		"streszczenie",
		"abstrakt", "souhrn",
		"sammanfattning",
		"摘要", "内容摘要",
		"要旨", "概要", "抄録",
		"초록", "요약",
		"özet",
	},
	SectionIntroduction: {
		"introduction",
		"einleitung", "einführung",
		"introducción",
		"introduzione",
		"introdução",
		"inleiding",
		"введение",
		"wstęp", "wprowadzenie",
		"úvod",
		"inledning",
		"引言", "绪论", "緒論", "导论",
		"はじめに", "序論",
		"서론",
		"giriş",
	},
	SectionMethods: {
		"methods", "method", "methodology", "materials and methods", "experimental setup",
		"methoden", "methodik",
		"méthodes", "méthodologie",
		"métodos", "metodología",
		"metodi", "metodologia",
		"methodologie",
		"методы", "методология",
		"metody", "metodyka",
		"metoder", "metod",
		"方法", "研究方法", "实验方法",
		"手法", "方法論",
		"방법", "연구 방법",
		"yöntem", "yöntemler",
	},
	SectionResults: {
		"results", "findings", "results and discussion", "experiments", "evaluation",
		"ergebnisse",
		"résultats",
		"resultados",
		"risultati",
		"resultaten",
		"результаты",
		"wyniki",
		"výsledky",
		"resultat",
		"结果", "实验结果",
		"結果",
		"결과",
		"bulgular",
	},
	SectionDiscussion: {
		"discussion", "general discussion",
		"diskussion",
		"discusión",
		"discussione",
		"discussão",
		"discussie",
		"обсуждение",
		"dyskusja",
		"diskuse",
		"讨论", "討論",
		"考察",
		"논의", "고찰",
		"tartışma",
	},
	SectionConclusion: {
		"conclusion", "conclusions", "concluding remarks", "conclusions and future work",
		"fazit", "schlussfolgerung", "schlussfolgerungen",
		"conclusiones", "conclusión",
		"conclusioni",
		"conclusão", "conclusões",
		"conclusie", "conclusies",
		"заключение", "выводы",
		"wnioski", "podsumowanie",
		"závěr",
		"slutsats", "slutsatser",
		"结论", "結論", "总结",
		"결론",
		"sonuç", "sonuçlar",
	},
	SectionReferences: {
		"references", "bibliography", "works cited", "literature cited", "reference list",
		"literaturverzeichnis", "literatur", "quellen",
		"références", "bibliographie",
		"referencias", "bibliografía",
		"riferimenti", "bibliografia", "riferimenti bibliografici",
		"referências", "referências bibliográficas",
		"referenties", "literatuur",
		"литература", "список литературы",
		"literatura",
		"reference",
		"referenser", "litteratur",
		"参考文献",
		"참고문헌",
		"kaynaklar", "kaynakça",
	},
	SectionAcknowledgements: {
		"acknowledgements", "acknowledgments", "acknowledgement", "acknowledgment",
		"danksagung",
		"remerciements",
		"agradecimientos",
		"ringraziamenti",
		"agradecimentos",
		"dankwoord",
		"благодарности",
		"podziękowania",
		"poděkování",
		"tack", "tackord",
		"致谢", "致謝",
		"謝辞",
		"감사의 글",
		"teşekkür",
	},
	SectionAppendix: {
		"appendix", "appendices",
		"anhang",
		"annexe", "annexes",
		"apéndice", "anexo",
		"appendice",
		"bijlage",
		"приложение",
		"załącznik", "dodatek",
		"příloha",
		"bilaga",
		"附录", "附錄",
		"付録",
		"부록",
		"ekler",
	},
	SectionBackground: {
		"background", "preliminaries",
		"hintergrund", "grundlagen",
		"contexte",
		"antecedentes",
		"contesto",
		"contexto",
		"achtergrond",
		"предпосылки",
		"tło",
		"pozadí",
		"bakgrund",
		"背景", "研究背景",
		"배경",
		"arka plan",
	},
	SectionLiteratureReview: {
		"literature review", "related work", "related works", "review of literature", "state of the art",
		"literaturüberblick", "stand der forschung", "verwandte arbeiten",
		"état de l'art", "travaux connexes",
		"revisión de la literatura", "trabajos relacionados",
		"stato dell'arte",
		"revisão da literatura", "trabalhos relacionados",
		"literatuuronderzoek",
		"обзор литературы",
		"przegląd literatury",
		"přehled literatury",
		"litteraturöversikt",
		"文献综述", "相关工作",
		"関連研究",
		"선행 연구", "관련 연구",
		"literatür taraması",
	},
	SectionTableOfContents: {
		"contents", "table of contents",
		"inhaltsverzeichnis", "inhalt",
		"table des matières", "sommaire",
		"índice", "tabla de contenidos",
		"indice",
		"sumário",
		"inhoud", "inhoudsopgave",
		"содержание", "оглавление",
		"spis treści",
		"obsah",
		"innehåll", "innehållsförteckning",
		"目录", "目錄",
		"目次",
		"목차",
		"içindekiler",
	},
	SectionListOfFigures: {
		"list of figures", "figures",
		"abbildungsverzeichnis",
		"table des figures", "liste des figures",
		"índice de figuras", "lista de figuras",
		"elenco delle figure",
		"lijst van figuren",
		"список рисунков",
		"spis rysunków",
		"seznam obrázků",
		"figurförteckning",
		"图目录", "插图目录",
		"図目次",
		"그림 목차",
		"şekiller listesi",
	},
	SectionListOfTables: {
		"list of tables", "tables",
		"tabellenverzeichnis",
		"liste des tableaux",
		"índice de tablas", "lista de tablas", "lista de tabelas",
		"elenco delle tabelle",
		"lijst van tabellen",
		"список таблиц",
		"spis tabel",
		"seznam tabulek",
		"tabellförteckning",
		"表目录",
		"表目次",
		"표 목차",
		"tablolar listesi",
	},
}
