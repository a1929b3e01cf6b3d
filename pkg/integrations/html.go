package integrations

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/kerbaras/vnforge/pkg/novel"
	"github.com/kerbaras/vnforge/pkg/stage"
)

// HTMLDataID is the id of the script element holding the novel snapshot.
const HTMLDataID = "novel-data"

type htmlPage struct {
	Title           string
	Description     string
	TitleBackground string
	DataID          string
	Data            template.JS
	Stage           htmlStage
}

type htmlStage struct {
	Neutral           string
	BandStart         float64
	BandWidth         float64
	Center            float64
	SpeakerBrightness float64
	IdleBrightness    float64
	SpeakerScale      float64
	IdleScale         float64
	SpeakerZ          int
	IdleZ             int
}

var htmlTemplate = template.Must(template.New("web").Parse(webGameTemplate))

// CompileHTML renders a single self-contained page that plays the novel. The
// snapshot is embedded as JSON; the runtime only fetches the image URLs and
// the stylesheet framework.
func CompileHTML(n *novel.Novel) (string, error) {
	// encoding/json escapes <, >, &, U+2028 and U+2029, so the snapshot cannot
	// close its script element.
	data, err := novel.Marshal(*n)
	if err != nil {
		return "", fmt.Errorf("failed to encode novel: %w", err)
	}

	page := htmlPage{
		Title:           n.Title,
		Description:     n.Description,
		TitleBackground: stage.TitleBackground(n),
		DataID:          HTMLDataID,
		Data:            template.JS(data),
		Stage: htmlStage{
			Neutral:           stage.NeutralExpression,
			BandStart:         stage.BandStart,
			BandWidth:         stage.BandWidth,
			Center:            stage.Center,
			SpeakerBrightness: stage.SpeakerBrightness,
			IdleBrightness:    stage.IdleBrightness,
			SpeakerScale:      stage.SpeakerScale,
			IdleScale:         stage.IdleScale,
			SpeakerZ:          stage.SpeakerZ,
			IdleZ:             stage.IdleZ,
		},
	}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, page); err != nil {
		return "", fmt.Errorf("failed to render page: %w", err)
	}
	return buf.String(), nil
}

const webGameTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <script src="https://cdn.tailwindcss.com"></script>
    <style>
        body { font-family: sans-serif; background-color: black; color: white; overflow: hidden; }
        .character-sprite {
            position: absolute;
            bottom: 0;
            height: 85%;
            transition: all 0.4s cubic-bezier(0.25, 0.46, 0.45, 0.94);
            max-width: none;
            object-fit: contain;
            filter: drop-shadow(0 5px 15px rgba(0,0,0,0.7));
        }
        .dialogue-box { background-color: rgba(0, 0, 0, 0.7); backdrop-filter: blur(4px); }
        .choice-btn {
            width: 100%;
            text-align: left;
            padding: 1rem;
            background-color: rgba(79, 70, 229, 0.5);
            border: 1px solid rgb(129, 140, 248);
            border-radius: 0.5rem;
            transition: all 0.3s;
            cursor: pointer;
        }
        .choice-btn:hover { background-color: rgba(99, 102, 241, 1); }
        .title-screen-btn {
            background-color: rgb(79, 70, 229);
            color: white;
            padding: 1rem 3rem;
            border-radius: 9999px;
            font-size: 1.25rem;
            font-weight: 700;
            transition: transform 0.2s;
        }
        .title-screen-btn:hover { transform: scale(1.05); background-color: rgb(67, 56, 202); }
        .hidden { display: none !important; }
        .animate-fade-in { animation: fadeIn 0.5s ease-out forwards; }
        @keyframes fadeIn { from { opacity: 0; transform: translateY(10px); } to { opacity: 1; transform: translateY(0); } }
    </style>
</head>
<body>
    <div id="game-root" class="w-screen h-screen relative flex flex-col">
        <div id="title-screen" class="absolute inset-0 z-50 flex flex-col items-center justify-center bg-black">
            <div id="title-background" class="absolute inset-0 bg-cover bg-center" style="filter: brightness(0.4) blur(2px);"></div>
            <div class="z-10 text-center p-8 animate-fade-in max-w-4xl">
                <h1 class="text-5xl md:text-7xl font-bold text-white mb-6 drop-shadow-lg tracking-tight">{{.Title}}</h1>
                {{if .Description}}<p class="text-xl text-gray-200 mb-12 drop-shadow-md leading-relaxed">{{.Description}}</p>{{end}}
                <button id="start-button" class="title-screen-btn">GAME START</button>
            </div>
        </div>

        <div id="game-ui" class="absolute inset-0 hidden cursor-pointer">
            <div id="background" class="absolute inset-0 bg-cover bg-center transition-all duration-1000">
                <div class="absolute inset-0 bg-black/20"></div>
            </div>
            <div id="characters-container" class="absolute inset-0 overflow-hidden pointer-events-none"></div>
            <div id="ui-layer" class="absolute bottom-0 left-0 right-0 p-6 md:p-8 m-4 rounded-xl border border-gray-700 dialogue-box z-20 cursor-default">
                <div id="speaker-name" class="absolute -top-8 left-8 bg-gray-800 text-white px-6 py-2 rounded-t-lg border-t border-l border-r border-gray-600 text-xl font-bold hidden"></div>
                <p id="dialogue-text" class="text-lg md:text-xl leading-relaxed min-h-[3rem]"></p>
                <div id="choices-container" class="mt-6 grid grid-cols-1 md:grid-cols-2 gap-4 hidden"></div>
                <div id="continue-indicator" class="absolute bottom-2 right-4 text-white animate-pulse hidden">&#9660;</div>
            </div>
        </div>
    </div>

    <script id="{{.DataID}}" type="application/json">{{.Data}}</script>
    <script>
        const vn = JSON.parse(document.getElementById({{.DataID}}).textContent);
        const stage = {
            neutral: {{.Stage.Neutral}},
            bandStart: {{.Stage.BandStart}},
            bandWidth: {{.Stage.BandWidth}},
            center: {{.Stage.Center}},
            speakerBrightness: {{.Stage.SpeakerBrightness}},
            idleBrightness: {{.Stage.IdleBrightness}},
            speakerScale: {{.Stage.SpeakerScale}},
            idleScale: {{.Stage.IdleScale}},
            speakerZ: {{.Stage.SpeakerZ}},
            idleZ: {{.Stage.IdleZ}},
        };
        const titleBackground = {{.TitleBackground}};

        let currentSceneId = vn.startSceneId;
        let dialogueIndex = 0;
        let halted = false;

        const titleScreen = document.getElementById('title-screen');
        const titleBgEl = document.getElementById('title-background');
        const gameUi = document.getElementById('game-ui');
        const bgEl = document.getElementById('background');
        const charsContainer = document.getElementById('characters-container');
        const speakerNameEl = document.getElementById('speaker-name');
        const dialogueTextEl = document.getElementById('dialogue-text');
        const choicesContainer = document.getElementById('choices-container');
        const continueIndicator = document.getElementById('continue-indicator');

        if (titleBackground) {
            titleBgEl.style.backgroundImage = "url('" + titleBackground + "')";
        } else {
            titleBgEl.style.backgroundColor = '#000';
        }

        function findScene(id) { return vn.scenes.find(s => s.id === id); }
        function findCharacter(id) { return id == null ? undefined : vn.characters.find(c => c.id === id); }

        function defaultExpression(char) {
            return char.expressions.find(e => e.name.toLowerCase() === stage.neutral) || char.expressions[0];
        }

        function shownExpression(char, line) {
            let expr;
            if (line.characterId === char.id && line.expressionId != null) {
                expr = char.expressions.find(e => e.id === line.expressionId);
            }
            return expr || defaultExpression(char);
        }

        function spread(index, total) {
            if (total <= 1) return stage.center;
            return (index / (total - 1)) * stage.bandWidth + stage.bandStart;
        }

        function startGame() {
            titleScreen.style.display = 'none';
            gameUi.classList.remove('hidden');
            currentSceneId = vn.startSceneId;
            dialogueIndex = 0;
            halted = false;
            render();
        }

        function resetGame() {
            titleScreen.style.display = 'flex';
            gameUi.classList.add('hidden');
            currentSceneId = vn.startSceneId;
            dialogueIndex = 0;
            halted = false;
        }

        function halt(message) {
            halted = true;
            charsContainer.innerHTML = '';
            speakerNameEl.classList.add('hidden');
            dialogueTextEl.textContent = message;
            continueIndicator.classList.add('hidden');
            choicesContainer.innerHTML = '';
            choicesContainer.className = 'mt-6 flex flex-col items-center';
            const restartBtn = document.createElement('button');
            restartBtn.className = 'px-6 py-3 bg-white text-black rounded-full font-bold';
            restartBtn.textContent = 'Back to title';
            restartBtn.onclick = (e) => { e.stopPropagation(); resetGame(); };
            choicesContainer.appendChild(restartBtn);
        }

        function render() {
            const scene = findScene(currentSceneId);
            if (!scene) return halt('Error: scene "' + currentSceneId + '" not found.');

            if (scene.backgroundUrl) {
                bgEl.style.backgroundImage = "url('" + scene.backgroundUrl + "')";
            } else {
                bgEl.style.backgroundImage = 'none';
                bgEl.style.backgroundColor = '#1f2937';
            }

            const last = scene.dialogue.length - 1;
            if (dialogueIndex > last) dialogueIndex = last;
            if (dialogueIndex < 0) dialogueIndex = 0;
            const line = scene.dialogue[dialogueIndex] || { characterId: null, expressionId: null, text: '' };
            const isLast = dialogueIndex >= last;

            charsContainer.innerHTML = '';
            const present = scene.presentCharacterIds.map(findCharacter).filter(Boolean);
            present.forEach((char, index) => {
                const expr = shownExpression(char, line);
                if (!expr || !expr.imageUrl) return;
                const speaking = line.characterId === char.id;
                const img = document.createElement('img');
                img.src = expr.imageUrl;
                img.className = 'character-sprite';
                img.onerror = function() { this.style.display = 'none'; };
                img.style.left = spread(index, present.length) + '%';
                img.style.transform = 'translateX(-50%) scale(' + (speaking ? stage.speakerScale : stage.idleScale) + ')';
                img.style.filter = 'brightness(' + (speaking ? stage.speakerBrightness : stage.idleBrightness) + ')';
                img.style.zIndex = speaking ? stage.speakerZ : stage.idleZ;
                charsContainer.appendChild(img);
            });

            const speaker = findCharacter(line.characterId);
            if (speaker) {
                speakerNameEl.textContent = speaker.name;
                speakerNameEl.classList.remove('hidden');
                dialogueTextEl.classList.remove('pt-2');
            } else {
                speakerNameEl.classList.add('hidden');
                dialogueTextEl.classList.add('pt-2');
            }
            dialogueTextEl.textContent = line.text;

            choicesContainer.innerHTML = '';
            choicesContainer.className = 'mt-6 grid grid-cols-1 md:grid-cols-2 gap-4 hidden';
            continueIndicator.classList.add('hidden');

            if (!isLast) {
                continueIndicator.classList.remove('hidden');
                return;
            }
            choicesContainer.classList.remove('hidden');
            if (scene.choices.length > 0) {
                scene.choices.forEach(choice => {
                    const btn = document.createElement('button');
                    btn.className = 'choice-btn';
                    btn.textContent = choice.text;
                    btn.onclick = (e) => {
                        e.stopPropagation();
                        currentSceneId = choice.nextSceneId;
                        dialogueIndex = 0;
                        render();
                    };
                    choicesContainer.appendChild(btn);
                });
                return;
            }

            choicesContainer.className = 'mt-6 flex flex-col items-center';
            const endMsg = document.createElement('div');
            endMsg.className = 'text-gray-400 mb-4';
            endMsg.textContent = '~ The End ~';
            const restartBtn = document.createElement('button');
            restartBtn.className = 'flex items-center gap-2 px-6 py-3 bg-white text-black hover:bg-gray-200 rounded-full font-bold transition-colors';
            restartBtn.textContent = '↺ Back to title';
            restartBtn.onclick = (e) => { e.stopPropagation(); resetGame(); };
            choicesContainer.appendChild(endMsg);
            choicesContainer.appendChild(restartBtn);
        }

        function handleScreenClick() {
            if (halted) return;
            const scene = findScene(currentSceneId);
            if (!scene) return;
            if (dialogueIndex >= scene.dialogue.length - 1) return;
            dialogueIndex++;
            render();
        }

        document.getElementById('start-button').addEventListener('click', startGame);
        gameUi.addEventListener('click', handleScreenClick);
    </script>
</body>
</html>
`
